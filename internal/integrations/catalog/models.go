package catalog

// Item позиция каталога (пакет или опция) в формате сайта
type Item struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Payload каталог в формате data.json сайта
type Payload struct {
	Packages []Item `json:"packages"`
	Addons   []Item `json:"addons"`
}
