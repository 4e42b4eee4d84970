package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Price    string `yaml:"price"`
}

// LoadSeed creates every product listed in a YAML catalog file:
//
//	products:
//	  - id: shoe-1        # optional
//	    name: Trail Runner
//	    category: shoes
//	    price: "100.00"
//
// Loading the same file again is a no-op. Entries without an id get one
// derived from category and name, and products that already exist are
// skipped. It stops at the first invalid entry and reports how many
// products were created.
func (s *Service) LoadSeed(ctx context.Context, r io.Reader) (int, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return 0, fmt.Errorf("decode seed: %w", err)
	}

	created := 0
	for i, sp := range f.Products {
		price, err := decimal.NewFromString(sp.Price)
		if err != nil {
			return created, fmt.Errorf("seed product %d (%s): price %q: %w", i, sp.Name, sp.Price, ErrInvalidInput)
		}
		_, err = s.CreateProduct(ctx, sp.id(), sp.Name, sp.Category, price)
		switch {
		case errors.Is(err, ErrConflict):
			continue
		case err != nil:
			return created, fmt.Errorf("seed product %d (%s): %w", i, sp.Name, err)
		}
		created++
	}
	return created, nil
}

func (sp seedProduct) id() string {
	if id := strings.TrimSpace(sp.ID); id != "" {
		return id
	}
	name := strings.TrimSpace(sp.Name)
	category := strings.TrimSpace(sp.Category)
	if name == "" || category == "" {
		return ""
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(category+"/"+name)).String()
}
