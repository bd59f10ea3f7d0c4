package depot

type factory struct{}

var Factory factory

func (f factory) NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	return NewEngine(cfg, opts...)
}

func (f factory) NewEntityManager(capacity int) *EntityManager {
	return newEntityManager(capacity)
}

func FactoryNewComponentStore[T any](capacity int) *ComponentStore[T] {
	return newComponentStore[T](capacity)
}
