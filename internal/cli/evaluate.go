package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"

	"github.com/docscanhq/docscan/internal/detector"
	"github.com/docscanhq/docscan/internal/evaluation"
	"github.com/docscanhq/docscan/internal/qr"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var (
	legalOutputTypes = []string{jsonFormat, yamlFormat}
)

type EvaluateOptions struct {
	AnnotationsPath string
	ImagesRoot      string
	DetectorURL     string
	QRPrimaryURL    string
	QRFallbackURL   string
	Confidence      float64
	IoU             float64
	Output          string
}

func DefaultEvaluateOptions() *EvaluateOptions {
	return &EvaluateOptions{
		DetectorURL:  "http://localhost:9090/detect",
		QRPrimaryURL: "http://localhost:9091/decode",
		Confidence:   0.25,
		IoU:          0.5,
	}
}

func NewCmdEvaluate() *cobra.Command {
	o := DefaultEvaluateOptions()
	cmd := &cobra.Command{
		Use:   "evaluate ANNOTATIONS IMAGES_ROOT",
		Short: "Score the detection stack against hand-labeled annotations.",
		Args:  cobra.ExactArgs(2),
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

func (o *EvaluateOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.DetectorURL, "detector-url", o.DetectorURL, "Detection sidecar endpoint")
	fs.StringVar(&o.QRPrimaryURL, "qr-url", o.QRPrimaryURL, "Primary QR decoder endpoint")
	fs.StringVar(&o.QRFallbackURL, "qr-fallback-url", o.QRFallbackURL, "Fallback QR decoder endpoint")
	fs.Float64Var(&o.Confidence, "conf", o.Confidence, "Confidence threshold for detector predictions")
	fs.Float64Var(&o.IoU, "iou", o.IoU, "IoU threshold for true positive matching")
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
}

func (o *EvaluateOptions) Complete(cmd *cobra.Command, args []string) error {
	o.AnnotationsPath = args[0]
	o.ImagesRoot = args[1]
	return nil
}

func (o *EvaluateOptions) Validate(args []string) error {
	if len(o.Output) > 0 && !funk.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	return nil
}

func (o *EvaluateOptions) Run(ctx context.Context, args []string) error {
	engines := []qr.Engine{qr.NewHTTPEngine("primary", o.QRPrimaryURL)}
	if o.QRFallbackURL != "" {
		engines = append(engines, qr.NewHTTPEngine("fallback", o.QRFallbackURL))
	}

	evaluator := evaluation.New(
		detector.NewHTTPDetector(o.DetectorURL),
		qr.NewChain(engines...),
		o.Confidence,
		o.IoU,
	)
	report, err := evaluator.Run(ctx, o.AnnotationsPath, o.ImagesRoot)
	if err != nil {
		return fmt.Errorf("evaluating: %w", err)
	}

	switch o.Output {
	case jsonFormat:
		marshalled, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshalling report: %w", err)
		}
		fmt.Printf("%s\n", string(marshalled))
	case yamlFormat:
		marshalled, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshalling report: %w", err)
		}
		fmt.Printf("%s\n", string(marshalled))
	default:
		report.WriteTable(os.Stdout)
	}
	return nil
}
