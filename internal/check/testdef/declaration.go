// Package testdef provides test declaration parsing and merging.
// Declarations specify what to verify (function, arguments, assertion,
// expected value) as opposed to how the harness executes them.
package testdef

// Declaration is a single test as written in a test file. Name is the
// mapping key the declaration was filed under, attached after parse.
// ExpectedReturn distinguishes an absent key (nil) from declared falsy
// values, so expected-return: false is a valid expectation.
type Declaration struct {
	Name              string         `yaml:"-"`
	ModuleAndFunction string         `yaml:"module_and_function"`
	Args              []any          `yaml:"args"`
	Kwargs            map[string]any `yaml:"kwargs"`
	Assertion         string         `yaml:"assertion"`
	ExpectedReturn    any            `yaml:"expected-return"`
}

// HasExpected reports whether the declaration carries an expected value.
func (d *Declaration) HasExpected() bool {
	return d.ExpectedReturn != nil
}

// Collection is an ordered, name-keyed set of declarations. Iteration
// order is insertion order. Setting a duplicate name replaces the body
// but keeps the original position, so later files override earlier ones
// without reshuffling the run order.
type Collection struct {
	order []string
	decls map[string]*Declaration
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		decls: make(map[string]*Declaration),
	}
}

// Set adds or replaces a declaration by name.
func (c *Collection) Set(decl *Declaration) {
	if _, exists := c.decls[decl.Name]; !exists {
		c.order = append(c.order, decl.Name)
	}
	c.decls[decl.Name] = decl
}

// Get returns a declaration by name.
func (c *Collection) Get(name string) (*Declaration, bool) {
	decl, ok := c.decls[name]
	return decl, ok
}

// Names returns the declaration names in insertion order.
func (c *Collection) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// All returns the declarations in insertion order.
func (c *Collection) All() []*Declaration {
	decls := make([]*Declaration, 0, len(c.order))
	for _, name := range c.order {
		decls = append(decls, c.decls[name])
	}
	return decls
}

// Merge folds another collection into this one, preserving this
// collection's positions for names both already hold.
func (c *Collection) Merge(other *Collection) {
	for _, decl := range other.All() {
		c.Set(decl)
	}
}

// Len returns the number of declarations.
func (c *Collection) Len() int {
	return len(c.decls)
}
