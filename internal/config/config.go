package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Service  *svcConfig
	Pipeline *pipelineConfig
}

type svcConfig struct {
	Address        string `envconfig:"DOCSCAN_ADDRESS" default:":8080"`
	MetricsAddress string `envconfig:"DOCSCAN_METRICS_ADDRESS" default:":8081"`
	BaseUrl        string `envconfig:"DOCSCAN_BASE_URL" default:"http://localhost:8080"`
	LogLevel       string `envconfig:"DOCSCAN_LOG_LEVEL" default:"info"`
	MediaRoot      string `envconfig:"DOCSCAN_MEDIA_ROOT" default:"media"`
}

type pipelineConfig struct {
	DetectorURL         string  `envconfig:"DOCSCAN_DETECTOR_URL" default:"http://localhost:9090/detect"`
	QRPrimaryURL        string  `envconfig:"DOCSCAN_QR_PRIMARY_URL" default:"http://localhost:9091/decode"`
	QRFallbackURL       string  `envconfig:"DOCSCAN_QR_FALLBACK_URL" default:""`
	ConfidenceThreshold float64 `envconfig:"DOCSCAN_CONFIDENCE_THRESHOLD" default:"0.25"`
	LowConfThreshold    float64 `envconfig:"DOCSCAN_LOW_CONF_THRESHOLD" default:"0.5"`
	HighConfThreshold   float64 `envconfig:"DOCSCAN_HIGH_CONF_THRESHOLD" default:"0.8"`
	EnableHeatmap       bool    `envconfig:"DOCSCAN_ENABLE_HEATMAP" default:"true"`
	HeatmapSigmaScale   float64 `envconfig:"DOCSCAN_HEATMAP_SIGMA_SCALE" default:"0.2"`
	RasterDPI           int     `envconfig:"DOCSCAN_RASTER_DPI" default:"200"`
	PopplerPath         string  `envconfig:"POPPLER_PATH" default:""`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}
