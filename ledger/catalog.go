package ledger

import (
	"fmt"
	"strings"
)

// =============================================================================
// PRODUCT CATALOG
// =============================================================================
// Catalog edits never touch Logs except AddProduct with an initial stock.
// Deleting a product leaves its history in place; catalog-joined views skip it.

// InitialStockNote is written on the entry created by AddProduct.
const InitialStockNote = "初始入库"

// ValidateProduct checks the invariants of a catalog item.
func ValidateProduct(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price.Float() < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	return nil
}

// AddProduct appends p to the catalog. An empty id gets a generated one and
// an empty category becomes DefaultCategory. When initialStock is positive
// the product is opened on date with that stock.
func (en *Engine) AddProduct(data AppData, p Product, initialStock float64, date Date) (AppData, Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := ValidateProduct(p); err != nil {
		return data, Product{}, err
	}
	if p.ID == "" {
		p.ID = ProductID(en.NewID())
	}
	if _, exists := data.Product(p.ID); exists {
		return data, Product{}, fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
	}
	p.Category = p.CategoryOrDefault()

	out := data
	out.Products = append(append(make([]Product, 0, len(data.Products)+1), data.Products...), p)

	if stock := sanitize(initialStock); stock > 0 {
		e := newEntry(p.ID, stock)
		e.Notes = InitialStockNote
		out.Logs = withEntry(data.Logs, date, p.ID, e)
	}
	return out, p, nil
}

// EditProduct replaces the catalog item with the same id.
func EditProduct(data AppData, p Product) (AppData, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := ValidateProduct(p); err != nil {
		return data, err
	}
	idx := indexOf(data.Products, p.ID)
	if idx < 0 {
		return data, fmt.Errorf("%w: %s", ErrProductNotFound, p.ID)
	}
	p.Category = p.CategoryOrDefault()

	out := data
	out.Products = append([]Product{}, data.Products...)
	out.Products[idx] = p
	return out, nil
}

// DeleteProducts removes the given ids from the catalog. Unknown ids are ignored.
// It returns how many products were removed.
func DeleteProducts(data AppData, ids ...ProductID) (AppData, int) {
	drop := make(map[ProductID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := data
	out.Products = make([]Product, 0, len(data.Products))
	for _, p := range data.Products {
		if !drop[p.ID] {
			out.Products = append(out.Products, p)
		}
	}
	return out, len(data.Products) - len(out.Products)
}

// SetCategory assigns category to every listed product.
func SetCategory(data AppData, ids []ProductID, category string) (AppData, int) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}
	want := make(map[ProductID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := data
	out.Products = append([]Product{}, data.Products...)
	n := 0
	for i := range out.Products {
		if want[out.Products[i].ID] {
			out.Products[i].Category = category
			n++
		}
	}
	return out, n
}

// MoveProduct moves a product to index in the catalog order, clamping index
// into range.
func MoveProduct(data AppData, id ProductID, index int) (AppData, error) {
	from := indexOf(data.Products, id)
	if from < 0 {
		return data, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	p := data.Products[from]
	rest := make([]Product, 0, len(data.Products))
	rest = append(rest, data.Products[:from]...)
	rest = append(rest, data.Products[from+1:]...)

	if index < 0 {
		index = 0
	}
	if index > len(rest) {
		index = len(rest)
	}
	out := data
	out.Products = make([]Product, 0, len(data.Products))
	out.Products = append(out.Products, rest[:index]...)
	out.Products = append(out.Products, p)
	out.Products = append(out.Products, rest[index:]...)
	return out, nil
}

func indexOf(products []Product, id ProductID) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
