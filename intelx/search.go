package intelx

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// SubmitSearch starts an intelligent search job.
func (c *Client) SubmitSearch(ctx context.Context, req SearchRequest) (Handle, error) {
	var resp submitResponse
	if err := c.postJSON(ctx, c.cfg.SearchRoot, "/intelligent/search", req, &resp); err != nil {
		return Handle{}, err
	}
	return handleFromSubmit(resp, KindSearch)
}

// PollSearch fetches one round of results for a search job.
func (c *Client) PollSearch(ctx context.Context, h Handle, limit int) (Outcome, error) {
	query := url.Values{
		"id":    {h.ID},
		"limit": {strconv.Itoa(limit)},
	}
	var resp pollResponse
	if err := c.getJSON(ctx, c.cfg.SearchRoot, "/intelligent/search/result", query, &resp); err != nil {
		return Outcome{}, err
	}
	return Outcome{State: stateFromStatus(resp.Status), Records: resp.Records}, nil
}

// TerminateSearch asks the upstream to stop a running search job.
func (c *Client) TerminateSearch(ctx context.Context, h Handle) error {
	query := url.Values{"id": {h.ID}}
	_, err := c.do(ctx, "GET", c.cfg.SearchRoot, "/intelligent/search/terminate", query, nil)
	return err
}

// SubmitPhonebook starts a phonebook (selector) search job.
func (c *Client) SubmitPhonebook(ctx context.Context, req PhonebookRequest) (Handle, error) {
	var resp submitResponse
	if err := c.postJSON(ctx, c.cfg.SearchRoot, "/phonebook/search", req, &resp); err != nil {
		return Handle{}, err
	}
	return handleFromSubmit(resp, KindPhonebook)
}

// PollPhonebook fetches one round of phonebook selector results.
func (c *Client) PollPhonebook(ctx context.Context, h Handle, limit, offset int) (Outcome, error) {
	query := url.Values{
		"id":     {h.ID},
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	var resp pollResponse
	if err := c.getJSON(ctx, c.cfg.SearchRoot, "/phonebook/search/result", query, &resp); err != nil {
		return Outcome{}, err
	}
	return Outcome{State: stateFromStatus(resp.Status), Records: resp.Records}, nil
}

// SubmitIdentity starts an identity (breach) search job. The identity
// service takes its submission as a GET with query parameters.
func (c *Client) SubmitIdentity(ctx context.Context, req IdentityRequest) (Handle, error) {
	query := url.Values{
		"term":       {req.Term},
		"maxresults": {strconv.Itoa(req.MaxResults)},
		"buckets":    {strings.Join(req.Buckets, ",")},
		"timeout":    {strconv.Itoa(req.Timeout)},
		"datefrom":   {req.DateFrom},
		"dateto":     {req.DateTo},
		"terminate":  {strings.Join(req.Terminate, ",")},
	}
	var resp submitResponse
	if err := c.getJSON(ctx, c.cfg.IdentityRoot, "/live/search/internal", query, &resp); err != nil {
		return Handle{}, err
	}
	return handleFromSubmit(resp, KindIdentity)
}

// PollIdentity fetches one round of identity results.
func (c *Client) PollIdentity(ctx context.Context, h Handle, limit int) (Outcome, error) {
	query := url.Values{
		"id":     {h.ID},
		"format": {"1"},
		"limit":  {strconv.Itoa(limit)},
	}
	var resp pollResponse
	if err := c.getJSON(ctx, c.cfg.IdentityRoot, "/live/search/result", query, &resp); err != nil {
		return Outcome{}, err
	}
	return Outcome{State: stateFromStatus(resp.Status), Records: resp.Records}, nil
}

// TerminateIdentity asks the upstream to stop a running identity job.
// Account-export jobs share this endpoint.
func (c *Client) TerminateIdentity(ctx context.Context, h Handle) error {
	query := url.Values{"id": {h.ID}}
	_, err := c.do(ctx, "GET", c.cfg.IdentityRoot, "/live/search/terminate", query, nil)
	return err
}

// SubmitAccountExport starts an account credential export job. Polling and
// termination reuse the identity endpoints.
func (c *Client) SubmitAccountExport(ctx context.Context, req ExportRequest) (Handle, error) {
	query := url.Values{
		"selector":  {req.Selector},
		"bucket":    {req.Bucket},
		"limit":     {strconv.Itoa(req.Limit)},
		"datefrom":  {req.DateFrom},
		"dateto":    {req.DateTo},
		"terminate": {strings.Join(req.Terminate, ",")},
	}
	var resp submitResponse
	if err := c.getJSON(ctx, c.cfg.IdentityRoot, "/accounts/csv", query, &resp); err != nil {
		return Handle{}, err
	}
	return handleFromSubmit(resp, KindExport)
}
