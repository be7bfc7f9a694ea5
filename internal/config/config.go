package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string           `mapstructure:"mode"`
	Port       int              `mapstructure:"port"`
	LogLevel   string           `mapstructure:"log_level"`
	Signaling  SignalingConfig  `mapstructure:"signaling"`
	WebRTC     WebRTCConfig     `mapstructure:"webrtc"`
	Rendezvous RendezvousConfig `mapstructure:"rendezvous"`
}

type SignalingConfig struct {
	URL        string        `mapstructure:"url"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
}

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type WebRTCConfig struct {
	ICEServers      []ICEServer `mapstructure:"ice_servers"`
	VideoCodec      string      `mapstructure:"video_codec"`
	FrameBuffer     int         `mapstructure:"frame_buffer"`
	MTU             int         `mapstructure:"mtu"`
	IncludeLoopback bool        `mapstructure:"include_loopback"`
}

type RendezvousConfig struct {
	Port           int           `mapstructure:"port"`
	Secret         string        `mapstructure:"secret"`
	CodeLength     int           `mapstructure:"code_length"`
	CreateLimit    int           `mapstructure:"create_limit"`
	CreateInterval time.Duration `mapstructure:"create_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8090)
	v.SetDefault("log_level", "info")

	v.SetDefault("signaling.url", "")
	v.SetDefault("signaling.read_limit", 65536)
	v.SetDefault("signaling.ping_period", "20s")
	v.SetDefault("signaling.pong_wait", "30s")
	v.SetDefault("signaling.write_wait", "5s")
	v.SetDefault("signaling.send_buffer", 64)

	v.SetDefault("webrtc.ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
	v.SetDefault("webrtc.video_codec", "vp8")
	v.SetDefault("webrtc.frame_buffer", 8)
	v.SetDefault("webrtc.mtu", 1200)
	v.SetDefault("webrtc.include_loopback", false)

	v.SetDefault("rendezvous.port", 8080)
	v.SetDefault("rendezvous.secret", "livecam-dev-secret")
	v.SetDefault("rendezvous.code_length", 4)
	v.SetDefault("rendezvous.create_limit", 10)
	v.SetDefault("rendezvous.create_interval", "1m")
}

// Default returns the configuration with every default applied and no file read.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &cfg
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("LIVECAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("signaling", cfg.Signaling.URL).
		Int("ice_servers", len(cfg.WebRTC.ICEServers)).
		Msg("config ready")
	return &cfg, nil
}
