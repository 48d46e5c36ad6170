package catalog

// Statistics computes aggregate figures in a single pass. On an empty catalog
// it returns zero totals with MaxPrice -1 and an empty MaxPriceTitle.
func (c *Catalog) Statistics() Stats {
	s := Stats{
		DistinctTitles: len(c.books),
		MaxPrice:       -1,
	}

	for _, b := range c.books {
		s.TotalCopies += b.Quantity
		s.TotalValue += b.Value()

		// strict comparison keeps the first book on ties
		if b.Price > s.MaxPrice {
			s.MaxPrice = b.Price
			s.MaxPriceTitle = b.Title
		}
	}

	if s.TotalCopies > 0 {
		s.AveragePrice = s.TotalValue / float64(s.TotalCopies)
	}

	return s
}
