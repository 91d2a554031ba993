package sitecfg

// File is the top-level structure of the optional site.yaml descriptor.
type File struct {
	Site siteProps `yaml:"site"`
}

// siteProps describes the supported shop as configured on disk.
type siteProps struct {
	Name    string            `yaml:"name"`
	Domains []string          `yaml:"domains"`
	Headers map[string]string `yaml:"headers,omitempty"`
}
