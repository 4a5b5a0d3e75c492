package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/meadcraft/meadery/internal/domain/inventory"
	"gopkg.in/yaml.v3"
)

// inventoryFile is the on-disk layout of an offline inventory
type inventoryFile struct {
	Items []inventoryEntry `yaml:"items"`
}

type inventoryEntry struct {
	Name     string  `yaml:"name"`
	Qty      float64 `yaml:"qty"`
	Unit     string  `yaml:"unit"`
	Price    float64 `yaml:"price"`
	Category string  `yaml:"category"`
}

// loadInventory reads and validates an inventory YAML file. Entries keep
// their file order, so the first of two same-named items wins a lookup.
func loadInventory(path string) (inventory.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory: %w", err)
	}
	defer f.Close()

	return decodeInventory(f)
}

func decodeInventory(r io.Reader) (inventory.Snapshot, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file inventoryFile
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse inventory: %w", err)
	}

	snapshot := make(inventory.Snapshot, 0, len(file.Items))
	for i, entry := range file.Items {
		category, err := inventory.ParseCategory(entry.Category)
		if err != nil {
			return nil, fmt.Errorf("inventory item %d (%s): %w", i+1, entry.Name, err)
		}
		item, err := inventory.NewItem(entry.Name, entry.Qty, entry.Unit, entry.Price, category)
		if err != nil {
			return nil, fmt.Errorf("inventory item %d (%s): %w", i+1, entry.Name, err)
		}
		snapshot = append(snapshot, item)
	}
	return snapshot, nil
}
