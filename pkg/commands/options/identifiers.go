package options

// IDOptions holds routine identifier arguments.
type IDOptions struct {
	ID  string
	IDs []string
}
