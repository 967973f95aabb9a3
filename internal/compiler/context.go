package compiler

import (
	"io"
	"log/slog"

	"github.com/roach88/updatesynth/internal/ir"
)

// Default identifiers used by generated code.
const (
	DefaultDispatcher     = "propUpdater"
	DefaultPropsVar       = "$$props"
	DefaultStateVar       = "$$state"
	DefaultTransactionVar = "$$propsTransaction"
)

// Options controls the identifiers placed in the generated call.
type Options struct {
	// Dispatcher is the runtime updater factory being called.
	Dispatcher string

	// PropsVar holds the previous prop values.
	PropsVar string

	// StateVar holds the previous state values.
	StateVar string

	// TransactionVar is the shared prop-transaction container, appended
	// only when the component needs transactional multi-prop updates.
	TransactionVar string
}

// DefaultOptions returns the identifiers the runtime expects by default.
func DefaultOptions() Options {
	return Options{
		Dispatcher:     DefaultDispatcher,
		PropsVar:       DefaultPropsVar,
		StateVar:       DefaultStateVar,
		TransactionVar: DefaultTransactionVar,
	}
}

// withDefaults fills empty fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Dispatcher == "" {
		o.Dispatcher = d.Dispatcher
	}
	if o.PropsVar == "" {
		o.PropsVar = d.PropsVar
	}
	if o.StateVar == "" {
		o.StateVar = d.StateVar
	}
	if o.TransactionVar == "" {
		o.TransactionVar = d.TransactionVar
	}
	return o
}

// Context is the read-only input shared by every pipeline stage for one
// compilation unit. It is passed explicitly; nothing here is global.
type Context struct {
	Component *ir.Component
	Namer     Namer
	Options   Options

	// Logger receives Debug records for each stage. Nil means slog.Default().
	Logger *slog.Logger
}

// NewContext creates a context with DefaultNamer and DefaultOptions.
func NewContext(comp *ir.Component) *Context {
	return &Context{
		Component: comp,
		Namer:     DefaultNamer,
		Options:   DefaultOptions(),
	}
}

func (c *Context) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Context) namer() Namer {
	if c.Namer != nil {
		return c.Namer
	}
	return DefaultNamer
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
