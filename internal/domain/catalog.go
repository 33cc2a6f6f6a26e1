package domain

// Package is a detailing service package from the catalog
type Package struct {
	ID    string
	Name  string
	Price int64
}

// Addon is an optional extra from the catalog
type Addon struct {
	ID    string
	Name  string
	Price int64
}

// Catalog is a snapshot of packages and add-ons with their current prices
type Catalog struct {
	Packages []Package
	Addons   []Addon
}

// FindPackage looks a package up by id
func (c *Catalog) FindPackage(id string) (Package, bool) {
	for _, p := range c.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// FindAddons returns every add-on with the given id
func (c *Catalog) FindAddons(id string) []Addon {
	var found []Addon
	for _, a := range c.Addons {
		if a.ID == id {
			found = append(found, a)
		}
	}
	return found
}
