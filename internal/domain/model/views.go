package model

// リレーションを解決した読み取り専用のビュー

type CartItemWithProduct struct {
	CartItem
	Product Product `json:"product"`
}

type CartWithItems struct {
	Cart  Cart                  `json:"cart"`
	Items []CartItemWithProduct `json:"items"`
}

type OrderItemWithProduct struct {
	OrderItem
	Product Product `json:"product"`
}

type OrderWithItems struct {
	Order
	Items []OrderItemWithProduct `json:"items"`
}

type ReviewWithUser struct {
	Review
	User User `json:"user"`
}
