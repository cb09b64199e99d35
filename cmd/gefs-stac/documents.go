package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
)

// readCollection decodes a collection document from disk.
func readCollection(path string) (*stac.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	var c stac.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", path, err)
	}
	if c.Type != "Collection" || c.ID == "" {
		return nil, fmt.Errorf("%s is not a STAC collection", path)
	}
	return &c, nil
}

// validateDocument decodes an item or collection and checks its structure.
// It returns the document type and id alongside any problems found.
func validateDocument(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}

	var head struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", "", fmt.Errorf("decode %s: %w", path, err)
	}

	switch head.Type {
	case "Feature":
		var item stac.Item
		if err := json.Unmarshal(data, &item); err != nil {
			return head.Type, head.ID, fmt.Errorf("decode item: %w", err)
		}
		return head.Type, head.ID, stac.ValidateItem(&item)
	case "Collection":
		var c stac.Collection
		if err := json.Unmarshal(data, &c); err != nil {
			return head.Type, head.ID, fmt.Errorf("decode collection: %w", err)
		}
		return head.Type, head.ID, stac.ValidateCollection(&c)
	default:
		return head.Type, head.ID, fmt.Errorf("unsupported document type %q", head.Type)
	}
}
