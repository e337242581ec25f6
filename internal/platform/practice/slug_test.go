package practice

import (
	"testing"

	"studyhub/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProblemSlug(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"plain", "https://practice.example.com/problems/two-sum", "two-sum", false},
		{"trailing slash", "https://practice.example.com/problems/two-sum/", "two-sum", false},
		{"nested path", "https://practice.example.com/problems/two-sum/discuss/123", "two-sum", false},
		{"marker deeper in path", "https://practice.example.com/contest/weekly/problems/lru-cache", "lru-cache", false},
		{"surrounding whitespace", "  https://practice.example.com/problems/two-sum  ", "two-sum", false},
		{"no marker", "https://practice.example.com/contests/weekly-42", "", true},
		{"empty slug", "https://practice.example.com/problems/", "", true},
		{"empty string", "", "", true},
		{"not a url", "://///", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProblemSlug(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrMalformedLink)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
