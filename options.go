package motionindex

type clientConfig struct {
	addrs         []string
	username      string
	password      string
	index         string
	bulkChunkSize int
}

// Option configures the Client.
type Option func(*clientConfig)

// WithOpenSearch sets the cluster addresses.
func WithOpenSearch(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithBasicAuth sets cluster credentials.
func WithBasicAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithIndex sets the index name (default "documents").
func WithIndex(name string) Option {
	return func(c *clientConfig) { c.index = name }
}

// WithBulkChunkSize sets the bulk indexing chunk size.
func WithBulkChunkSize(n int) Option {
	return func(c *clientConfig) { c.bulkChunkSize = n }
}
