package tools

import (
	"context"
	"fmt"

	"github.com/osintforge/intelx-mcp/search"
)

// toolNamespace groups the Intelligence X tools in the catalog.
const toolNamespace = "intelx"

func schemaObject(required []string, properties map[string]any) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func intProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func stringArrayProp(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

// RegisterSearchTools registers the Intelligence X tool set against a
// search service.
func RegisterSearchTools(r *Registry, svc *search.Service) error {
	register := []struct {
		name        string
		description string
		schema      map[string]any
		handler     ToolHandler
		tags        []string
	}{
		{
			name:        "intelx_search",
			description: "Full-text search across Intelligence X buckets. Returns normalized result records; identifier fields are small integers usable with the file tools.",
			schema: schemaObject([]string{"term"}, map[string]any{
				"term":       stringProp("Search term (domain, email, URL, IP, hash, ...)"),
				"buckets":    stringArrayProp("Bucket names to search; empty means all accessible buckets"),
				"maxresults": intProp("Maximum number of records to return"),
				"timeout":    intProp("Upstream search timeout in seconds, passed through opaquely"),
				"datefrom":   stringProp("Earliest record date, YYYY-MM-DD HH:MM:SS"),
				"dateto":     stringProp("Latest record date, YYYY-MM-DD HH:MM:SS"),
				"sort":       intProp("Upstream sort order code"),
				"media":      intProp("Media type filter code; 0 means all"),
			}),
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				term, err := requiredString(args, "term")
				if err != nil {
					return nil, err
				}
				records, err := svc.Search(ctx, search.SearchQuery{
					Term:       term,
					Buckets:    stringSliceArg(args, "buckets"),
					MaxResults: intArg(args, "maxresults"),
					Timeout:    intArg(args, "timeout"),
					DateFrom:   stringArg(args, "datefrom"),
					DateTo:     stringArg(args, "dateto"),
					Sort:       intArg(args, "sort"),
					Media:      intArg(args, "media"),
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"records": records, "count": len(records)}, nil
			},
			tags: []string{"search", "osint"},
		},
		{
			name:        "intelx_phonebook",
			description: "Phonebook search: lists the selectors (domains, emails, URLs) related to a term, grouped per poll round.",
			schema: schemaObject([]string{"term"}, map[string]any{
				"term":       stringProp("Root selector to expand, usually a domain"),
				"buckets":    stringArrayProp("Bucket names to search"),
				"maxresults": intProp("Maximum number of selector entries"),
				"target":     intProp("Selector category filter: 0 all, 1 domains, 2 emails, 3 urls"),
			}),
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				term, err := requiredString(args, "term")
				if err != nil {
					return nil, err
				}
				listings, err := svc.Phonebook(ctx, search.PhonebookQuery{
					Term:       term,
					Buckets:    stringSliceArg(args, "buckets"),
					MaxResults: intArg(args, "maxresults"),
					Target:     intArg(args, "target"),
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"listings": listings}, nil
			},
			tags: []string{"search", "selectors"},
		},
		{
			name:        "intelx_identity",
			description: "Identity and breach search. Records sharing a storage identifier are merged; the line field concatenates the matching breach lines.",
			schema: schemaObject([]string{"term"}, map[string]any{
				"term":       stringProp("Identity selector (email, username, domain, ...)"),
				"buckets":    stringArrayProp("Bucket names to search"),
				"maxresults": intProp("Maximum number of records"),
				"datefrom":   stringProp("Earliest record date, YYYY-MM-DD HH:MM:SS"),
				"dateto":     stringProp("Latest record date, YYYY-MM-DD HH:MM:SS"),
			}),
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				term, err := requiredString(args, "term")
				if err != nil {
					return nil, err
				}
				records, err := svc.Identity(ctx, search.IdentityQuery{
					Term:       term,
					Buckets:    stringSliceArg(args, "buckets"),
					MaxResults: intArg(args, "maxresults"),
					DateFrom:   stringArg(args, "datefrom"),
					DateTo:     stringArg(args, "dateto"),
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"records": records, "count": len(records)}, nil
			},
			tags: []string{"search", "breach"},
		},
		{
			name:        "intelx_export_accounts",
			description: "Export credential records for a selector. Results are kept one entry per poll round with per-round metadata.",
			schema: schemaObject([]string{"selector"}, map[string]any{
				"selector": stringProp("Selector to export accounts for"),
				"bucket":   stringProp("Bucket to export from"),
				"limit":    intProp("Maximum number of records"),
				"datefrom": stringProp("Earliest record date, YYYY-MM-DD HH:MM:SS"),
				"dateto":   stringProp("Latest record date, YYYY-MM-DD HH:MM:SS"),
			}),
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				selector, err := requiredString(args, "selector")
				if err != nil {
					return nil, err
				}
				rounds, err := svc.ExportAccounts(ctx, search.ExportQuery{
					Selector: selector,
					Bucket:   stringArg(args, "bucket"),
					Limit:    intArg(args, "limit"),
					DateFrom: stringArg(args, "datefrom"),
					DateTo:   stringArg(args, "dateto"),
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"rounds": rounds}, nil
			},
			tags: []string{"export", "breach"},
		},
		{
			name:        "intelx_file_preview",
			description: "Preview the first lines of a result file. Takes the integer storageid returned by a search.",
			schema: schemaObject([]string{"storageid", "bucket"}, map[string]any{
				"storageid": intProp("Integer storage identifier from a search result"),
				"bucket":    stringProp("Bucket the record lives in"),
				"mediatype": intProp("Media type code from the search record"),
				"format":    intProp("Content format code: 0 text, 1 picture"),
				"lines":     intProp("Number of preview lines"),
			}),
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				storageID, err := requiredInt(args, "storageid")
				if err != nil {
					return nil, err
				}
				preview, err := svc.FilePreview(ctx, search.FilePreviewRequest{
					StorageID: storageID,
					Bucket:    stringArg(args, "bucket"),
					MediaType: intArg(args, "mediatype"),
					Format:    intArg(args, "format"),
					Lines:     intArg(args, "lines"),
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"preview": preview}, nil
			},
			tags: []string{"file"},
		},
		{
			name:        "intelx_file_view",
			description: "View a result file's full contents. Takes the integer storageid returned by a search.",
			schema: schemaObject([]string{"storageid", "bucket"}, map[string]any{
				"storageid": intProp("Integer storage identifier from a search result"),
				"bucket":    stringProp("Bucket the record lives in"),
				"format":    intProp("Content format code"),
			}),
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				storageID, err := requiredInt(args, "storageid")
				if err != nil {
					return nil, err
				}
				content, err := svc.FileView(ctx, search.FileViewRequest{
					StorageID: storageID,
					Bucket:    stringArg(args, "bucket"),
					Format:    intArg(args, "format"),
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"content": content}, nil
			},
			tags: []string{"file"},
		},
		{
			name:        "intelx_file_read",
			description: "Read a result file's raw bytes. Takes the integer systemid returned by a search.",
			schema: schemaObject([]string{"systemid", "bucket"}, map[string]any{
				"systemid": intProp("Integer system identifier from a search result"),
				"bucket":   stringProp("Bucket the record lives in"),
				"type":     intProp("Read type code"),
				"name":     stringProp("File name to report in the download"),
			}),
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				systemID, err := requiredInt(args, "systemid")
				if err != nil {
					return nil, err
				}
				content, err := svc.FileRead(ctx, search.FileReadRequest{
					SystemID: systemID,
					Bucket:   stringArg(args, "bucket"),
					Type:     intArg(args, "type"),
					Name:     stringArg(args, "name"),
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"content": content}, nil
			},
			tags: []string{"file"},
		},
		{
			name:        "intelx_file_tree",
			description: "List the item hierarchy under a result. Takes the integer storageid returned by a search.",
			schema: schemaObject([]string{"storageid", "bucket"}, map[string]any{
				"storageid": intProp("Integer storage identifier from a search result"),
				"bucket":    stringProp("Bucket the record lives in"),
			}),
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				storageID, err := requiredInt(args, "storageid")
				if err != nil {
					return nil, err
				}
				tree, err := svc.FileTree(ctx, storageID, stringArg(args, "bucket"))
				if err != nil {
					return nil, err
				}
				return map[string]any{"tree": tree}, nil
			},
			tags: []string{"file"},
		},
		{
			name:        "intelx_selectors",
			description: "List the human-readable selectors extracted from a result item. Takes the integer systemid returned by a search.",
			schema: schemaObject([]string{"systemid"}, map[string]any{
				"systemid": intProp("Integer system identifier from a search result"),
			}),
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				systemID, err := requiredInt(args, "systemid")
				if err != nil {
					return nil, err
				}
				selectors, err := svc.Selectors(ctx, systemID)
				if err != nil {
					return nil, err
				}
				return map[string]any{"selectors": selectors}, nil
			},
			tags: []string{"file", "selectors"},
		},
		{
			name:        "intelx_capabilities",
			description: "Describe the configured API key's capabilities: accessible buckets, paths and limits.",
			schema:      schemaObject(nil, map[string]any{}),
			handler: func(ctx context.Context, args map[string]any) (any, error) {
				info, err := svc.Capabilities(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{"info": info}, nil
			},
			tags: []string{"account"},
		},
	}

	for _, t := range register {
		err := r.RegisterLocalFunc(
			t.name,
			t.description,
			t.schema,
			t.handler,
			WithNamespace(toolNamespace),
			WithVersion("1.0.0"),
			WithTags(t.tags...),
		)
		if err != nil {
			return fmt.Errorf("register %s: %w", t.name, err)
		}
	}
	return nil
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func requiredString(args map[string]any, key string) (string, error) {
	s, ok := args[key].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidArguments, key)
	}
	return s, nil
}

// intArg tolerates the numeric shapes a JSON decode can produce.
func intArg(args map[string]any, key string) int {
	switch n := args[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func requiredInt(args map[string]any, key string) (int, error) {
	if _, present := args[key]; !present {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidArguments, key)
	}
	switch args[key].(type) {
	case int, int64, float64:
		return intArg(args, key), nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidArguments, key)
	}
}

func stringSliceArg(args map[string]any, key string) []string {
	items, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
