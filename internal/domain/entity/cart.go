package entity

// Cart representa un carrito de compras persistido en archivo.
type Cart struct {
	ID       int        `json:"id"`
	Products []CartItem `json:"products"`
}

// CartItem línea de carrito: referencia a un producto y su cantidad.
type CartItem struct {
	Product  int `json:"product"`
	Quantity int `json:"quantity"`
}

// Add suma una unidad del producto; si no estaba en el carrito lo agrega con cantidad 1.
func (c *Cart) Add(productID int) {
	for i := range c.Products {
		if c.Products[i].Product == productID {
			c.Products[i].Quantity++
			return
		}
	}
	c.Products = append(c.Products, CartItem{Product: productID, Quantity: 1})
}
