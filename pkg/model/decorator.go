package model

// Decorator adjusts presentation details (labels, placeholders, title) of a
// freshly built schema. Decorators must not add, remove or reorder fields.
type Decorator interface {
	Decorate(*Schema) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Schema) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(schema *Schema) error {
	return fn(schema)
}

// WithTitle returns a decorator that sets the schema title.
func WithTitle(title string) Decorator {
	return DecoratorFunc(func(schema *Schema) error {
		if schema != nil {
			schema.Title = title
		}
		return nil
	})
}
