package embed

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/lucas-albers-lz4/imgembed/pkg/dom"
	"github.com/lucas-albers-lz4/imgembed/pkg/log"
)

// RenderImage builds a detached image node for url. On failure the node's
// container content is replaced with the image-error placeholder. An empty
// alt uses Options.ImageAlt. Empty url yields an image with an empty source,
// which a browser reports as a load failure.
func (e *Embedder) RenderImage(url, alt string) *Image {
	src, _ := e.resolver.Resolve(url)
	if alt == "" {
		alt = e.opts.ImageAlt
	}
	img := newImage(src.URL, alt, replaceContainer,
		e.opts.ImageErrorText, e.opts.ImageErrorClass,
		dom.NewAttr("crossorigin", e.opts.CrossOrigin))
	log.Debug("Rendered image", "input", url, "src", src.URL, "platform", src.Platform)
	return img
}

// RenderPreview fills the element with id containerID (Options.ContainerID
// when empty) in doc. A missing container is a no-op. An empty or blank url
// renders the preview placeholder. Otherwise the container gets a single
// image, returned so the caller can signal its load outcome; on failure the
// image itself is swapped for the preview-error placeholder.
func (e *Embedder) RenderPreview(doc *dom.Document, url, containerID string) *Image {
	if doc == nil {
		return nil
	}
	if containerID == "" {
		containerID = e.opts.ContainerID
	}
	container := doc.ElementByID(containerID)
	if container == nil {
		log.Debug("Preview container not found", "container", containerID)
		return nil
	}

	if strings.TrimSpace(url) == "" {
		span := dom.Element("span", dom.NewAttr("class", e.opts.PreviewPlaceholderClass))
		span.AppendChild(dom.Text(e.opts.PreviewPlaceholderText))
		_ = dom.SetContent(container, span)
		log.Debug("Rendered preview placeholder", "container", containerID)
		return nil
	}

	res, _ := e.resolver.Resolve(url)
	img := newImage(res.URL, e.opts.PreviewAlt, replaceSelf,
		e.opts.PreviewErrorText, e.opts.PreviewPlaceholderClass)
	_ = dom.SetContent(container, img.node)
	log.Debug("Rendered preview", "container", containerID, "src", res.URL, "platform", res.Platform)
	return img
}

// UpdatePreview renders url into the default container of doc using the
// default embedder.
func UpdatePreview(doc *dom.Document, url string) *Image {
	return defaultEmbedder.RenderPreview(doc, url, "")
}

// PreviewHTML renders url into a fresh container and returns the container's
// content markup.
func (e *Embedder) PreviewHTML(url string) (string, error) {
	doc, container := e.previewDocument("")
	e.RenderPreview(doc, url, e.opts.ContainerID)
	return dom.InnerHTML(container)
}

// ImageHTML renders url as a standalone image element.
func (e *Embedder) ImageHTML(url, alt string) (string, error) {
	return e.RenderImage(url, alt).HTML()
}

// PreviewDocument returns a new document whose body holds only an empty
// container with id containerID, or Options.ContainerID when empty.
func (e *Embedder) PreviewDocument(containerID string) *dom.Document {
	doc, _ := e.previewDocument(containerID)
	return doc
}

func (e *Embedder) previewDocument(containerID string) (*dom.Document, *html.Node) {
	if containerID == "" {
		containerID = e.opts.ContainerID
	}
	doc := dom.NewDocument()
	container := dom.Element("div", dom.NewAttr("id", containerID))
	doc.Body().AppendChild(container)
	return doc, container
}
