// Package rewrite applies srcset attributes to every image element of an
// HTML document.
package rewrite

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/heathj/imgset/parser"
	"github.com/heathj/imgset/parser/spec"
	"github.com/heathj/imgset/srcset"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var _ srcset.Element = (*spec.Element)(nil)

// Stats counts what happened to the image elements of one or more
// documents.
type Stats struct {
	Files   int
	Visited int
	Updated int
	Skipped int
	Failed  int
}

func (s *Stats) add(o Stats) {
	s.Files += o.Files
	s.Visited += o.Visited
	s.Updated += o.Updated
	s.Skipped += o.Skipped
	s.Failed += o.Failed
}

func (s Stats) fields() logrus.Fields {
	return logrus.Fields{
		"visited": s.Visited,
		"updated": s.Updated,
		"skipped": s.Skipped,
		"failed":  s.Failed,
	}
}

// Rewriter sets srcset on the images of parsed documents and files.
type Rewriter struct {
	opts        srcset.Options
	resolver    Resolver
	log         logrus.FieldLogger
	fragment    bool
	concurrency int
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithResolver sets how image sizes are looked up.
func WithResolver(r Resolver) Option {
	return func(rw *Rewriter) { rw.resolver = r }
}

// WithLogger sets the logger for per-element and per-file events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(rw *Rewriter) { rw.log = l }
}

// WithFragment makes Stream and Files treat input as a body fragment
// instead of a full document.
func WithFragment(fragment bool) Option {
	return func(rw *Rewriter) { rw.fragment = fragment }
}

// WithConcurrency limits how many files Files rewrites at once. Values
// below one are ignored.
func WithConcurrency(n int) Option {
	return func(rw *Rewriter) {
		if n > 0 {
			rw.concurrency = n
		}
	}
}

// New returns a Rewriter that resolves image sizes from width/height
// attributes unless another resolver is given.
func New(opts srcset.Options, options ...Option) *Rewriter {
	rw := &Rewriter{
		opts:        opts,
		resolver:    Attributes{},
		log:         logrus.StandardLogger(),
		concurrency: 1,
	}
	for _, o := range options {
		o(rw)
	}
	return rw
}

func isImageElement(n *spec.Node) bool {
	if n.NodeType != spec.ElementNode || n.Element.NamespaceURI != spec.Htmlns {
		return false
	}
	return n.Element.LocalName == "img" || n.Element.LocalName == "source"
}

// Document applies srcset to every img and source element under root in
// tree order. A failing element does not stop the walk; all failures are
// returned together.
func (r *Rewriter) Document(root *spec.Node) (Stats, error) {
	var (
		stats Stats
		errs  []error
	)
	root.Walk(func(n *spec.Node) bool {
		if !isImageElement(n) {
			return true
		}
		stats.Visited++
		elem := n.Element
		src := elem.GetAttribute("src")
		log := r.log.WithFields(logrus.Fields{"tag": elem.LocalName, "src": src})

		img, ok := r.resolver.Resolve(elem)
		if !ok {
			stats.Skipped++
			log.Debug("no image size, skipping")
			return true
		}

		had := elem.HasAttribute("srcset")
		before := elem.GetAttribute("srcset")
		if err := srcset.Apply(elem, img, r.opts); err != nil {
			stats.Failed++
			log.WithError(err).Warn("could not set srcset")
			errs = append(errs, errors.Wrapf(err, "<%s src=%q>", elem.LocalName, src))
			return true
		}

		if elem.HasAttribute("srcset") != had || elem.GetAttribute("srcset") != before {
			stats.Updated++
			log.WithField("srcset", elem.GetAttribute("srcset")).Debug("srcset set")
		}
		return true
	})
	return stats, stderrors.Join(errs...)
}

// Stream parses HTML from in, rewrites it and renders the result to out.
// Element failures are reported after the output is written.
func (r *Rewriter) Stream(in io.Reader, out io.Writer) (Stats, error) {
	var p *parser.Parser
	if r.fragment {
		p = parser.NewFragmentParser(in, nil)
	} else {
		p = parser.NewParser(in)
	}
	root, err := p.Start()
	if err != nil {
		return Stats{}, err
	}

	stats, applyErr := r.Document(root)
	if err := parser.Render(out, root); err != nil {
		return stats, err
	}
	return stats, applyErr
}

// File rewrites the HTML file at path in place. The file is only replaced
// when at least one srcset changed, and the replacement is atomic.
func (r *Rewriter) File(path string) (Stats, error) {
	log := r.log.WithField("file", path)

	in, err := os.Open(path)
	if err != nil {
		return Stats{}, errors.Wrap(err, "open")
	}
	var buf bytes.Buffer
	stats, err := r.Stream(in, &buf)
	in.Close()
	stats.Files = 1
	if err != nil {
		return stats, errors.Wrap(err, path)
	}
	if stats.Updated == 0 {
		log.WithFields(stats.fields()).Debug("unchanged")
		return stats, nil
	}

	if err := writeFile(path, buf.Bytes()); err != nil {
		return stats, errors.Wrap(err, path)
	}
	log.WithFields(stats.fields()).Info("rewritten")
	return stats, nil
}

func writeFile(path string, data []byte) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithExistingPermissions())
	if err != nil {
		return errors.Wrap(err, "create pending file")
	}
	defer pending.Cleanup()

	if _, err := pending.Write(data); err != nil {
		return errors.Wrap(err, "write pending file")
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return errors.Wrap(err, "atomically replace file")
	}
	return nil
}

// Files rewrites each file in place, running up to the configured number
// of files at once. The first error cancels files that have not started.
func (r *Rewriter) Files(ctx context.Context, paths []string) (Stats, error) {
	var (
		mu    sync.Mutex
		total Stats
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stats, err := r.File(path)
			mu.Lock()
			total.add(stats)
			mu.Unlock()
			return err
		})
	}
	err := g.Wait()
	return total, err
}
