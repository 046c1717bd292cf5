package embed

import (
	"sync"

	"golang.org/x/net/html"

	"github.com/lucas-albers-lz4/imgembed/pkg/dom"
	"github.com/lucas-albers-lz4/imgembed/pkg/log"
)

// Attributes carrying the placeholder to the inline failure scripts.
const (
	AttrFallbackText  = "data-fallback"
	AttrFallbackClass = "data-fallback-class"
	AttrOnError       = "onerror"
)

// Inline handlers for browser delivery. Both clear themselves first and read
// the placeholder from attributes, so no caller text ends up inside script.
const (
	// replaces the parent's content
	containerFailureScript = "this.onerror=null;var p=this.parentElement;if(p){" +
		"var s=document.createElement('span');" +
		"s.className=this.getAttribute('" + AttrFallbackClass + "');" +
		"s.textContent=this.getAttribute('" + AttrFallbackText + "');" +
		"p.replaceChildren(s);}"
	// replaces the image element itself
	selfFailureScript = "this.onerror=null;" +
		"var s=document.createElement('span');" +
		"s.className=this.getAttribute('" + AttrFallbackClass + "');" +
		"s.textContent=this.getAttribute('" + AttrFallbackText + "');" +
		"this.replaceWith(s);"
)

type failureMode int

const (
	replaceContainer failureMode = iota
	replaceSelf
)

// Image is a rendered <img> node plus its load state. Fail is the in-process
// equivalent of the browser's error event.
type Image struct {
	mu          sync.Mutex
	node        *html.Node
	placeholder *html.Node
	state       State
	mode        failureMode
	text        string
	class       string
}

func newImage(src, alt string, mode failureMode, text, class string, extra ...html.Attribute) *Image {
	script := containerFailureScript
	if mode == replaceSelf {
		script = selfFailureScript
	}
	attrs := []html.Attribute{
		dom.NewAttr("src", src),
		dom.NewAttr("alt", alt),
	}
	attrs = append(attrs, extra...)
	attrs = append(attrs,
		dom.NewAttr(AttrFallbackText, text),
		dom.NewAttr(AttrFallbackClass, class),
		dom.NewAttr(AttrOnError, script),
	)
	return &Image{
		node:  dom.Element("img", attrs...),
		state: Loading,
		mode:  mode,
		text:  text,
		class: class,
	}
}

// Node returns the <img> element. After a failure it is detached.
// The node is shared, not copied: reading or mutating it while another
// goroutine may call Fail is a data race. Use Src or HTML for that.
func (i *Image) Node() *html.Node {
	return i.node
}

// Src returns the image source attribute.
func (i *Image) Src() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.src()
}

func (i *Image) src() string {
	v, _ := dom.Attr(i.node, "src")
	return v
}

// State returns the current load state.
func (i *Image) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Placeholder returns the node that replaced the image, or nil before Fail.
func (i *Image) Placeholder() *html.Node {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.placeholder
}

// MarkLoaded records a successful load. It returns false if the image had
// already left the Loading state.
func (i *Image) MarkLoaded() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state.Terminal() {
		return false
	}
	i.state = Loaded
	return true
}

// Fail signals a load failure. The first call moves the image to Failed,
// clears its failure handler and swaps in the placeholder; any later call,
// or a call after MarkLoaded, does nothing and returns false.
//
// The lock covers this image only. The swap edits the surrounding tree, and
// a dom.Document has a single writer: when several images of one document
// can fail from different goroutines, the caller serializes those calls.
func (i *Image) Fail() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state.Terminal() {
		return false
	}
	i.state = Failed
	dom.RemoveAttr(i.node, AttrOnError)

	span := dom.Element("span", dom.NewAttr("class", i.class))
	span.AppendChild(dom.Text(i.text))
	i.placeholder = span

	switch i.mode {
	case replaceSelf:
		if !dom.Replace(i.node, span) {
			log.Debug("Failed image has no parent, nothing to replace", "src", i.src())
		}
	default:
		parent := i.node.Parent
		if parent == nil {
			log.Debug("Failed image has no container, nothing to replace", "src", i.src())
			break
		}
		// SetContent only errors on a nil node.
		_ = dom.SetContent(parent, span)
	}
	log.Debug("Image failed to load, placeholder rendered", "src", i.src(), "placeholder", i.text)
	return true
}

// HTML renders the image element.
func (i *Image) HTML() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return dom.OuterHTML(i.node)
}
