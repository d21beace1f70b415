package domain

type CartItem struct {
	ID        string
	CartID    string
	ProductID string
	Name      string
	Quantity  int
	UnitValue float64
}

type CustomerCart struct {
	ID         string
	CustomerID string
	TotalValue float64
	Items      []CartItem
}
