package category

// Category 商品分类
type Category struct {
	ID          uint
	Name        string
	Description string
}

// Update 覆盖名称和描述
func (c *Category) Update(name, description string) {
	c.Name = name
	c.Description = description
}
