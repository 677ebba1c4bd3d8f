package intelx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// treeFormat is the file/view format code that returns the item hierarchy
// as JSON instead of file contents.
const treeFormat = 12

// FilePreview returns the first lines of a file's content.
func (c *Client) FilePreview(ctx context.Context, req PreviewRequest) (string, error) {
	query := url.Values{
		"sid": {req.StorageID},
		"f":   {strconv.Itoa(req.Format)},
		"l":   {strconv.Itoa(req.Lines)},
		"c":   {strconv.Itoa(req.ContentType)},
		"m":   {strconv.Itoa(req.MediaType)},
		"b":   {req.Bucket},
		"k":   {c.cfg.APIKey},
	}
	data, err := c.do(ctx, "GET", c.cfg.SearchRoot, "/file/preview", query, nil)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FileView returns a file's full contents in the requested format.
func (c *Client) FileView(ctx context.Context, req ViewRequest) (string, error) {
	query := url.Values{
		"f":         {strconv.Itoa(req.Format)},
		"storageid": {req.StorageID},
		"bucket":    {req.Bucket},
		"escape":    {"0"},
		"k":         {c.cfg.APIKey},
	}
	data, err := c.do(ctx, "GET", c.cfg.SearchRoot, "/file/view", query, nil)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FileRead returns a file's raw bytes.
func (c *Client) FileRead(ctx context.Context, req ReadRequest) ([]byte, error) {
	query := url.Values{
		"type":     {strconv.Itoa(req.Type)},
		"systemid": {req.SystemID},
		"bucket":   {req.Bucket},
		"name":     {req.Name},
	}
	return c.do(ctx, "GET", c.cfg.SearchRoot, "/file/read", query, nil)
}

// FileTree returns the item hierarchy rooted at a storage identifier. The
// upstream signals failure to build a hierarchy with an empty or non-JSON
// body; that surfaces as ErrTreeUnavailable.
func (c *Client) FileTree(ctx context.Context, storageID, bucket string) (any, error) {
	query := url.Values{
		"f":         {strconv.Itoa(treeFormat)},
		"storageid": {storageID},
		"bucket":    {bucket},
		"k":         {c.cfg.APIKey},
	}
	data, err := c.do(ctx, "GET", c.cfg.SearchRoot, "/file/view", query, nil)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrTreeUnavailable
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTreeUnavailable, string(data))
	}
	switch tree.(type) {
	case map[string]any, []any:
		return tree, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrTreeUnavailable, string(data))
	}
}

// SelectorList returns the human-readable selectors extracted from an item.
func (c *Client) SelectorList(ctx context.Context, systemID string) (any, error) {
	query := url.Values{
		"id": {systemID},
		"k":  {c.cfg.APIKey},
	}
	data, err := c.do(ctx, "GET", c.cfg.SearchRoot, "/item/selector/list/human", query, nil)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		// the human listing may come back as plain text
		return string(data), nil
	}
	return decoded, nil
}

// Capabilities returns the account's capability and licensing information.
func (c *Client) Capabilities(ctx context.Context) (map[string]any, error) {
	query := url.Values{"k": {c.cfg.APIKey}}
	var info map[string]any
	if err := c.getJSON(ctx, c.cfg.SearchRoot, "/authenticate/info", query, &info); err != nil {
		return nil, err
	}
	return info, nil
}
