package store

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"ms-busbooking/internal/logger"
	"ms-busbooking/internal/models"
)

// Collection names, also used as storage keys.
const (
	Routes    = "routes"
	Buses     = "buses"
	Schedules = "schedules"
	Bookings  = "bookings"
	Customers = "customers"
)

//go:embed seed/initial_data.json
var seedFS embed.FS

// Collections maps collection names to record lists held in a KV,
// falling back to the seed dataset when stored data is missing or corrupt.
type Collections struct {
	KV     KV
	Logger *logger.Logger
	seed   map[string]json.RawMessage
}

func NewCollections(kv KV, log *logger.Logger) (*Collections, error) {
	raw, err := seedFS.ReadFile("seed/initial_data.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read seed data: %w", err)
	}
	return NewCollectionsWithSeed(kv, log, raw)
}

// NewCollectionsWithSeed uses the given JSON object (collection name -> array) as seed.
func NewCollectionsWithSeed(kv KV, log *logger.Logger, seed []byte) (*Collections, error) {
	parsed := map[string]json.RawMessage{}
	if len(seed) > 0 {
		if err := json.Unmarshal(seed, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse seed data: %w", err)
		}
	}
	return &Collections{KV: kv, Logger: log, seed: parsed}, nil
}

// Load reads the named collection. It never fails: absent, unparsable or
// non-array values yield the seed list for that name.
func Load[T any](ctx context.Context, c *Collections, name string) []T {
	raw, err := c.KV.Get(ctx, name)
	switch {
	case errors.Is(err, ErrNotFound):
		c.Logger.LogStore("LOAD", name, "no stored value, using seed data")
		return seedList[T](c, name)
	case err != nil:
		c.Logger.Warn("STORE", fmt.Sprintf("Error reading key '%s': %v. Using seed data.", name, err))
		return seedList[T](c, name)
	}

	records, err := decodeList[T](c, name, raw)
	if err != nil {
		c.Logger.Warn("STORE", fmt.Sprintf("Stored value for '%s' is unusable: %v. Using seed data.", name, err))
		return seedList[T](c, name)
	}
	return checkRecords(c, name, records)
}

// Save replaces the stored value with the full list.
func Save[T any](ctx context.Context, c *Collections, name string, records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := c.KV.Set(ctx, name, payload); err != nil {
		c.Logger.Error("STORE", fmt.Sprintf("Error saving key '%s': %v", name, err))
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	c.Logger.Debug("STORE", fmt.Sprintf("Saved %d records to '%s'", len(records), name))
	return nil
}

// decodeList decodes a JSON array element by element so one malformed
// record does not take the rest of the collection with it.
func decodeList[T any](c *Collections, name string, raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("not a JSON array")
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, err
	}
	records := make([]T, 0, len(elems))
	for i, elem := range elems {
		var r T
		if err := json.Unmarshal(elem, &r); err != nil {
			c.Logger.Error("STORE", fmt.Sprintf("Skipping undecodable record %d in '%s': %v", i, name, err))
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func seedList[T any](c *Collections, name string) []T {
	raw, ok := c.seed[name]
	if !ok {
		return []T{}
	}
	records, err := decodeList[T](c, name, raw)
	if err != nil {
		c.Logger.Error("STORE", fmt.Sprintf("Seed data for '%s' is invalid: %v", name, err))
		return []T{}
	}
	return records
}

// checkRecords drops records failing validation. Bookings are never dropped:
// the next save would erase them for good, so they are kept and reported.
func checkRecords[T any](c *Collections, name string, records []T) []T {
	kept := records[:0]
	for i, r := range records {
		if err := models.Validate(r); err != nil {
			if name == Bookings {
				c.Logger.Warn("STORE", fmt.Sprintf("Keeping invalid booking %d in '%s': %v", i, name, err))
				kept = append(kept, r)
				continue
			}
			c.Logger.Warn("STORE", fmt.Sprintf("Dropping invalid record %d in '%s': %v", i, name, err))
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
