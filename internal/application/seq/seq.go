// Package seq implementa el contador monótono de ids de las colecciones persistidas.
package seq

// Counter entrega ids crecientes. No es seguro para uso concurrente:
// el dueño lo protege con el mismo mutex que la colección.
type Counter struct {
	next int
}

// Seed crea un contador a partir de los ids existentes: max+1, o 0 si no hay ninguno.
func Seed(ids ...int) Counter {
	var c Counter
	c.Observe(ids...)
	return c
}

// Observe garantiza que el próximo id sea mayor que todos los ids dados.
func (c *Counter) Observe(ids ...int) {
	for _, id := range ids {
		if id >= c.next {
			c.next = id + 1
		}
	}
}

// Peek devuelve el próximo id sin consumirlo.
func (c *Counter) Peek() int { return c.next }

// Next consume y devuelve el próximo id.
func (c *Counter) Next() int {
	id := c.next
	c.next++
	return id
}
