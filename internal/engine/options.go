package engine

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithMigrator runs schema migrations during Start.
func WithMigrator(migrator Migrator) Option {
	return func(e *Engine) {
		e.migrator = migrator
	}
}

// WithIngress attaches an exchange event source whose lifetime the engine
// manages.
func WithIngress(ingress Ingress) Option {
	return func(e *Engine) {
		e.ingress = ingress
	}
}
