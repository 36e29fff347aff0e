package editor

// InitContext remembers whether an editor's one-time setup has run.
type InitContext struct {
	initialized bool
}

// Initialized reports whether setup completed.
func (c *InitContext) Initialized() bool { return c.initialized }

// Run calls setup unless it already succeeded once.
func (c *InitContext) Run(setup func() error) error {
	if c.initialized {
		return nil
	}
	if err := setup(); err != nil {
		return err
	}
	c.initialized = true
	return nil
}
