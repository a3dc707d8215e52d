package domain

import "time"

// Row is the outcome of resolving one requested barcode.
// When Err is non-nil, Product holds the Error Record.
type Row struct {
	Requested string
	Product   Product
	Err       error
}

// Failed reports whether the row stands for a failed resolution
func (r Row) Failed() bool {
	return r.Err != nil
}

// Dataset is an ordered set of rows, one per requested barcode
type Dataset struct {
	ID        string
	CreatedAt time.Time
	Rows      []Row
}

// Products returns the record of every row, Error Records included
func (d *Dataset) Products() []Product {
	products := make([]Product, len(d.Rows))
	for i, row := range d.Rows {
		products[i] = row.Product
	}
	return products
}

// FailedCount returns how many rows failed to resolve
func (d *Dataset) FailedCount() int {
	n := 0
	for _, row := range d.Rows {
		if row.Failed() {
			n++
		}
	}
	return n
}
