package item

type Category string

const (
	CategoryUtility         Category = "utility"
	CategoryFinishedProduct Category = "finished_product"
)

type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// DefaultProducts is the built-in craftable catalog used when the host
// does not supply its own product list.
func DefaultProducts() []Item {
	return []Item{
		{ID: "chair", Name: "Chair", Category: CategoryFinishedProduct},
		{ID: "table", Name: "Table", Category: CategoryFinishedProduct},
		{ID: "stool", Name: "Stool", Category: CategoryFinishedProduct},
		{ID: "shelf", Name: "Shelf", Category: CategoryFinishedProduct},
		{ID: "bench", Name: "Bench", Category: CategoryFinishedProduct},
	}
}
