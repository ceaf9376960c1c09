package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/docscanhq/docscan/internal/annotate"
	"github.com/docscanhq/docscan/internal/document"
	"github.com/docscanhq/docscan/internal/imaging"
	"github.com/docscanhq/docscan/internal/qr"
)

type ScanQROptions struct {
	Source        string
	OutDir        string
	QRPrimaryURL  string
	QRFallbackURL string
}

func DefaultScanQROptions() *ScanQROptions {
	return &ScanQROptions{
		QRPrimaryURL: "http://localhost:9091/decode",
	}
}

func NewCmdScanQR() *cobra.Command {
	o := DefaultScanQROptions()
	cmd := &cobra.Command{
		Use:   "scan-qr SOURCE",
		Short: "Decode QR codes in an image file or a directory of images.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ScanQROptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.OutDir, "out", o.OutDir, "Directory to save annotated images")
	fs.StringVar(&o.QRPrimaryURL, "qr-url", o.QRPrimaryURL, "Primary QR decoder endpoint")
	fs.StringVar(&o.QRFallbackURL, "qr-fallback-url", o.QRFallbackURL, "Fallback QR decoder endpoint")
}

func (o *ScanQROptions) Complete(cmd *cobra.Command, args []string) error {
	o.Source = args[0]
	return nil
}

func (o *ScanQROptions) Validate(args []string) error {
	if _, err := os.Stat(o.Source); err != nil {
		return fmt.Errorf("source not found: %s", o.Source)
	}
	return nil
}

func (o *ScanQROptions) Run(ctx context.Context, args []string) error {
	images, err := o.collectImages()
	if err != nil {
		return err
	}

	engines := []qr.Engine{qr.NewHTTPEngine("primary", o.QRPrimaryURL)}
	if o.QRFallbackURL != "" {
		engines = append(engines, qr.NewHTTPEngine("fallback", o.QRFallbackURL))
	}
	chain := qr.NewChain(engines...)

	for _, imagePath := range images {
		if err := o.scanImage(ctx, chain, imagePath); err != nil {
			return err
		}
	}
	return nil
}

func (o *ScanQROptions) collectImages() ([]string, error) {
	info, err := os.Stat(o.Source)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{o.Source}, nil
	}

	var images []string
	err = filepath.WalkDir(o.Source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && document.IsImage(path) {
			images = append(images, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	document.SortByRelPath(images, o.Source)
	return images, nil
}

func (o *ScanQROptions) scanImage(ctx context.Context, chain *qr.Chain, imagePath string) error {
	width, height, err := imaging.Dimensions(imagePath)
	if err != nil {
		fmt.Printf("[warn] unable to read image: %s\n", imagePath)
		return nil
	}

	hits := chain.Read(ctx, imagePath, width, height)
	if len(hits) == 0 {
		fmt.Printf("[miss] no QR found: %s\n", imagePath)
		return nil
	}

	fmt.Printf("[hit] QR found in %s\n", filepath.Base(imagePath))
	for _, hit := range hits {
		fmt.Printf("   -> %s\n", hit.Text)
	}

	if o.OutDir == "" {
		return nil
	}

	img, err := imaging.Load(imagePath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", imagePath, err)
	}
	outPath := filepath.Join(o.OutDir, filepath.Base(imagePath))
	if err := imaging.Write(outPath, annotate.Render(img, nil, hits)); err != nil {
		return fmt.Errorf("saving annotated image: %w", err)
	}
	fmt.Printf("   saved: %s\n", outPath)
	return nil
}
