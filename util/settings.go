package util

import (
	"crypto/rand"
	"fmt"
	"reflect"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const ENV_PREFIX = ""

// DefaultEndpoint is the single device the switch state goes to when nothing
// else is configured.
const DefaultEndpoint = "http://192.168.100.94/save"

var Config = viper.New()

var config_listeners []func()

func RegisterNewConfigListener(new_listener func()) {
	for _, listener := range config_listeners {
		if reflect.ValueOf(new_listener).Pointer() == reflect.ValueOf(listener).Pointer() {
			Logger.Warn().Msg("config listener already registered")
			return
		}
	}
	config_listeners = append(config_listeners, new_listener)
}

func OnNewConfig() {
	for _, listener := range config_listeners {
		listener()
	}
}

func GetRandString(n int) string {
	const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	for i := range b {
		randBytes := make([]byte, 1)
		if _, err := rand.Read(randBytes); err != nil {
			b[i] = letterBytes[i%len(letterBytes)]
		} else {
			b[i] = letterBytes[int(randBytes[0])%len(letterBytes)]
		}
	}
	return string(b)
}

func setDefaults() {
	Config.SetDefault("Endpoints", DefaultEndpoint)
	Config.SetDefault("Request_timeout", "0s")
	Config.SetDefault("Max_concurrent", 16)
	Config.SetDefault("Log_level", "info")

	Config.SetDefault("Listen_port", 8080)
	Config.SetDefault("Graceful_timeout", "15s")

	Config.SetDefault("Mqtt_enabled", false)
	Config.SetDefault("Broker_URI", "tcp://mqtt")
	Config.SetDefault("Cleansess", false)
	Config.SetDefault("Id_base", "switcher")
	Config.SetDefault("Username", "")
	Config.SetDefault("Password", "")
	Config.SetDefault("State_topic", "hab/switcher/set")
	Config.SetDefault("Online_topic", "hab/online")

	Config.SetDefault("Ha_name", "switcher")
	Config.SetDefault("Payload_on", "1")
	Config.SetDefault("Payload_off", "0")
}

func SetupConfig() {
	Config.SetEnvPrefix(ENV_PREFIX)
	setDefaults()

	// config file
	Config.SetConfigName("switcher")
	Config.AddConfigPath("/")
	Config.AddConfigPath("./")
	Config.AddConfigPath("./config")
	Config.AddConfigPath("/etc")
	Config.AddConfigPath("/switcher")
	Config.AddConfigPath("/switcher/config")

	err := Config.ReadInConfig()
	if err != nil {
		Logger.Warn().Msgf("unable to read config file: %v", fmt.Errorf("%v", err))
	}

	// environment variables
	Config.AutomaticEnv()

	// flags are bound by the commands before this runs

	// watch for changes
	if Config.ConfigFileUsed() != "" {
		Config.WatchConfig()
		Config.OnConfigChange(func(e fsnotify.Event) {
			Logger.Info().Msgf("Config file changed: %v", e.Name)
			Logger.Debug().Msgf("Config Additional Info: %v", e.String())
			OnNewConfig()
		})
	}
}
