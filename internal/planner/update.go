package planner

// FieldSet is an ordered collection of column updates where presence is
// explicit: a field that was never set is simply absent, as opposed to
// being present with a null value. It replaces per-field null checks
// when building partial updates.
type FieldSet struct {
	names  []string
	values map[string]any
}

// NewFieldSet returns an empty field set.
func NewFieldSet() *FieldSet {
	return &FieldSet{values: make(map[string]any)}
}

// Set records a value for the named field, preserving first-set order.
func (fs *FieldSet) Set(name string, value any) *FieldSet {
	if _, ok := fs.values[name]; !ok {
		fs.names = append(fs.names, name)
	}
	fs.values[name] = value
	return fs
}

// SetSite records a new site value.
func (fs *FieldSet) SetSite(site string) *FieldSet {
	return fs.Set(columnSite, site)
}

// SetType records a new artifact type value.
func (fs *FieldSet) SetType(pageType string) *FieldSet {
	return fs.Set(columnType, pageType)
}

// SetFile records a new storage key value.
func (fs *FieldSet) SetFile(fileKey string) *FieldSet {
	return fs.Set(columnFile, fileKey)
}

// Get returns the value for name and whether it was set.
func (fs *FieldSet) Get(name string) (any, bool) {
	value, ok := fs.values[name]
	return value, ok
}

// Names returns the set field names in first-set order.
func (fs *FieldSet) Names() []string {
	return fs.names
}

// Empty reports whether no fields were set.
func (fs *FieldSet) Empty() bool {
	return len(fs.names) == 0
}
