// Package embed renders resolved image URLs into page elements.
//
// RenderImage builds a standalone image node whose failure replaces its
// container's content with a placeholder. RenderPreview fills a container,
// looked up by id, with either a placeholder or an image whose failure swaps
// the image itself for a placeholder. Both paths build nodes with
// golang.org/x/net/html, so URLs and placeholder texts are escaped on render.
package embed

import "github.com/lucas-albers-lz4/imgembed/pkg/resolver"

// Defaults for Options.
const (
	DefaultContainerID             = "image-preview"
	DefaultImageAlt                = "Image"
	DefaultPreviewAlt              = "Preview"
	DefaultImageErrorText          = "[Image unavailable]"
	DefaultImageErrorClass         = "image-error"
	DefaultPreviewPlaceholderText  = "image preview"
	DefaultPreviewErrorText        = "[Invalid or inaccessible URL]"
	DefaultPreviewPlaceholderClass = "preview-placeholder"
	DefaultCrossOrigin             = "anonymous"
)

// Options holds the texts and class names the renderers emit. Empty fields
// fall back to the defaults above.
type Options struct {
	ContainerID             string `json:"containerId" yaml:"containerId" mapstructure:"container-id"`
	ImageAlt                string `json:"imageAlt" yaml:"imageAlt" mapstructure:"image-alt"`
	PreviewAlt              string `json:"previewAlt" yaml:"previewAlt" mapstructure:"preview-alt"`
	ImageErrorText          string `json:"imageErrorText" yaml:"imageErrorText" mapstructure:"image-error-text"`
	ImageErrorClass         string `json:"imageErrorClass" yaml:"imageErrorClass" mapstructure:"image-error-class"`
	PreviewPlaceholderText  string `json:"previewPlaceholderText" yaml:"previewPlaceholderText" mapstructure:"preview-placeholder-text"`
	PreviewErrorText        string `json:"previewErrorText" yaml:"previewErrorText" mapstructure:"preview-error-text"`
	PreviewPlaceholderClass string `json:"previewPlaceholderClass" yaml:"previewPlaceholderClass" mapstructure:"preview-placeholder-class"`
	CrossOrigin             string `json:"crossOrigin" yaml:"crossOrigin" mapstructure:"cross-origin"`
}

// DefaultOptions returns Options with every field set to its default.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	def := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	def(&o.ContainerID, DefaultContainerID)
	def(&o.ImageAlt, DefaultImageAlt)
	def(&o.PreviewAlt, DefaultPreviewAlt)
	def(&o.ImageErrorText, DefaultImageErrorText)
	def(&o.ImageErrorClass, DefaultImageErrorClass)
	def(&o.PreviewPlaceholderText, DefaultPreviewPlaceholderText)
	def(&o.PreviewErrorText, DefaultPreviewErrorText)
	def(&o.PreviewPlaceholderClass, DefaultPreviewPlaceholderClass)
	def(&o.CrossOrigin, DefaultCrossOrigin)
	return o
}

// Embedder renders images with a fixed resolver and options. It holds no
// mutable state and is safe for concurrent use.
type Embedder struct {
	resolver *resolver.Resolver
	opts     Options
}

// New returns an Embedder. A nil resolver means resolver.Default().
func New(r *resolver.Resolver, opts Options) *Embedder {
	if r == nil {
		r = resolver.Default()
	}
	return &Embedder{resolver: r, opts: opts.withDefaults()}
}

var defaultEmbedder = New(nil, Options{})

// Default returns the Embedder over the built-in rules and default options.
func Default() *Embedder {
	return defaultEmbedder
}

// Options returns the effective options.
func (e *Embedder) Options() Options {
	return e.opts
}

// Resolver returns the resolver used for image sources.
func (e *Embedder) Resolver() *resolver.Resolver {
	return e.resolver
}
