// Package practice talks to the external coding-practice site that group
// tasks of type "external-problem" link to. The site is queried read-only:
// a lifetime solved flag per (handle, problem) and a bounded window of the
// user's most recent submissions.
package practice

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"context"

	"studyhub/internal/common"
)

const OutcomeAccepted = "Accepted"

type Problem struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
}

// ProblemStatus is the lifetime view: has this handle ever solved this problem.
type ProblemStatus struct {
	Solved  bool    `json:"solved"`
	Problem Problem `json:"problem"`
}

type RecentSubmission struct {
	ID          string `json:"id"`
	ProblemSlug string `json:"problem_slug"`
	Outcome     string `json:"outcome"`
	EpochSecond int64  `json:"epoch_second"`
	Language    string `json:"language"`
}

func (s RecentSubmission) SubmittedAt() time.Time {
	return time.Unix(s.EpochSecond, 0).UTC()
}

type Client interface {
	FetchProblemStatus(ctx context.Context, handle, problemSlug string) (*ProblemStatus, error)
	FetchRecentSubmissions(ctx context.Context, handle string, limit int) ([]RecentSubmission, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) Client {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) FetchProblemStatus(ctx context.Context, handle, problemSlug string) (*ProblemStatus, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/%s/problems/%s",
		c.baseURL, url.PathEscape(handle), url.PathEscape(problemSlug))

	var status ProblemStatus
	if err := c.getJSON(ctx, endpoint, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *httpClient) FetchRecentSubmissions(ctx context.Context, handle string, limit int) ([]RecentSubmission, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/%s/submissions?limit=%s",
		c.baseURL, url.PathEscape(handle), strconv.Itoa(limit))

	var payload struct {
		Submissions []RecentSubmission `json:"submissions"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return payload.Submissions, nil
}

func (c *httpClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("practice.getJSON: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("practice service unreachable: %w", common.ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("practice service returned %d: %w", resp.StatusCode, common.ErrServiceUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("practice service sent malformed body: %w", common.ErrServiceUnavailable)
	}
	return nil
}
