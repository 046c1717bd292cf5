package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lucas-albers-lz4/imgembed/pkg/dom"
	"github.com/lucas-albers-lz4/imgembed/pkg/embed"
	"github.com/lucas-albers-lz4/imgembed/pkg/exitcodes"
	log "github.com/lucas-albers-lz4/imgembed/pkg/log"
)

// RenderFlags holds the command line flags for the render command
type RenderFlags struct {
	Mode        string
	Alt         string
	ContainerID string
	Page        string
	Fragment    bool
	Failed      bool
	OutputFile  string
}

func newRenderCmd() *cobra.Command {
	flags := &RenderFlags{}
	cmd := &cobra.Command{
		Use:   "render <url>",
		Short: "Render image or preview markup for a URL",
		Long: `Render the markup for an image URL.

In image mode a single <img> element is printed. In preview mode the URL is
rendered into the preview container of an HTML page: the page given with
--page, or a fresh page holding only the container. An empty URL renders the
preview placeholder.

--failed renders the markup as it looks after the image failed to load.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &exitcodes.ExitCodeError{
					Code: exitcodes.ExitMissingRequiredArg,
					Err:  fmt.Errorf("render requires exactly one URL argument, got %d", len(args)),
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.Mode, "mode", renderModePreview, "Render mode (image or preview)")
	cmd.Flags().StringVar(&flags.Alt, "alt", "", "Alt text for image mode")
	cmd.Flags().StringVar(&flags.ContainerID, "container-id", "", "Id of the preview container (default from config, else image-preview)")
	cmd.Flags().StringVar(&flags.Page, "page", "", "HTML page to render the preview into")
	cmd.Flags().BoolVar(&flags.Fragment, "fragment", false, "Print only the preview container's content")
	cmd.Flags().BoolVar(&flags.Failed, "failed", false, "Render the markup after a load failure")
	cmd.Flags().StringVarP(&flags.OutputFile, "output-file", "o", "", "Write output to file instead of stdout")
	return cmd
}

func runRender(cmd *cobra.Command, url string, flags *RenderFlags) error {
	e, err := loadEmbedder()
	if err != nil {
		return err
	}

	var out string
	switch flags.Mode {
	case renderModeImage:
		out, err = renderImageMarkup(e, url, flags)
	case renderModePreview:
		out, err = renderPreviewMarkup(e, url, flags)
	default:
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInvalidOutputFormat,
			Err:  fmt.Errorf("unsupported render mode '%s' (supported: %s, %s)", flags.Mode, renderModeImage, renderModePreview),
		}
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd, flags.OutputFile, []byte(out+"\n"))
}

func renderError(err error) error {
	return &exitcodes.ExitCodeError{Code: exitcodes.ExitRenderError, Err: err}
}

func renderImageMarkup(e *embed.Embedder, url string, flags *RenderFlags) (string, error) {
	img := e.RenderImage(url, flags.Alt)
	// an image is the only content of its container once rendered
	container := dom.Element("div")
	container.AppendChild(img.Node())
	if flags.Failed {
		img.Fail()
	}
	out, err := dom.InnerHTML(container)
	if err != nil {
		return "", renderError(err)
	}
	return out, nil
}

func renderPreviewMarkup(e *embed.Embedder, url string, flags *RenderFlags) (string, error) {
	containerID := flags.ContainerID
	if containerID == "" {
		containerID = e.Options().ContainerID
	}

	doc, err := loadPage(e, flags.Page, containerID)
	if err != nil {
		return "", err
	}

	img := e.RenderPreview(doc, url, containerID)
	if img != nil && flags.Failed {
		img.Fail()
	}

	container := doc.ElementByID(containerID)
	if container == nil {
		if flags.Fragment {
			return "", renderError(fmt.Errorf("preview container '#%s' not found in %s", containerID, flags.Page))
		}
		log.Warn("Preview container not found, page left unchanged", "container", containerID, "page", flags.Page)
	}

	if flags.Fragment {
		out, err := dom.InnerHTML(container)
		if err != nil {
			return "", renderError(err)
		}
		return out, nil
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return "", renderError(err)
	}
	return buf.String(), nil
}

// loadPage parses path through AppFs, or builds an empty page holding only
// the container when path is empty.
func loadPage(e *embed.Embedder, path, containerID string) (*dom.Document, error) {
	if path == "" {
		return e.PreviewDocument(containerID), nil
	}

	f, err := AppFs.Open(path)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitIOError,
			Err:  fmt.Errorf("failed to open page '%s': %w", path, err),
		}
	}
	defer func(f afero.File) {
		if cerr := f.Close(); cerr != nil {
			log.Debug("Failed to close page file", "path", path, "error", cerr)
		}
	}(f)

	doc, err := dom.Parse(f)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitPageParseError,
			Err:  fmt.Errorf("failed to parse page '%s': %w", path, err),
		}
	}
	return doc, nil
}
