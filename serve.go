package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	. "github.com/elijahnyp/switcher/util"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept switch states over HTTP and MQTT",

	RunE: func(cmd *cobra.Command, args []string) error {
		return doServe()
	},
}

func init() {
	serveCmd.Flags().Int("listen-port", 8080, "HTTP port for the switch trigger")
	serveCmd.Flags().Bool("mqtt", false, "subscribe to the state topic on the MQTT broker")
	serveCmd.Flags().String("broker", "", "MQTT broker URI, eg. tcp://mqtt:1883")
	serveCmd.Flags().Duration("graceful-timeout", time.Second*15, "duration to wait for in-flight deliveries on shutdown")

	errPanic(Config.BindPFlag("listen_port", serveCmd.Flags().Lookup("listen-port")))
	errPanic(Config.BindPFlag("mqtt_enabled", serveCmd.Flags().Lookup("mqtt")))
	errPanic(Config.BindPFlag("broker_uri", serveCmd.Flags().Lookup("broker")))
	errPanic(Config.BindPFlag("graceful_timeout", serveCmd.Flags().Lookup("graceful-timeout")))

	rootCmd.AddCommand(serveCmd)
}

var stateTopic string

// subscribeStateTopic follows state_topic across config reloads.
func subscribeStateTopic(notifier StateNotifier) func() {
	return func() {
		topic := Config.GetString("state_topic")
		if stateTopic != "" && stateTopic != topic {
			RegisterMQTTSubscription(stateTopic, nil)
		}
		stateTopic = topic
		RegisterMQTTSubscription(topic, StateMessageHandler(notifier))
	}
}

func doServe() error {
	notifier := NewNotifierFromConfig()

	RegisterNewConfigListener(func() { LogInit(Config.GetString("log_level")) })
	RegisterNewConfigListener(func() { notifier.SetEndpoints(ConfiguredEndpoints()) })
	RegisterNewConfigListener(subscribeStateTopic(notifier))
	RegisterMQTTConnectHook("haadvertise", func(client MQTT.Client) {
		AdvertiseHA(client)
	})
	RegisterNewConfigListener(MqttInit)
	OnNewConfig()

	monitor := NewMonitorServer()
	monitor.AddHandler("/switch", SwitchHandler(notifier))
	monitor.AddHandler("/endpoints", EndpointsHandler(notifier))
	monitor.AddHandler("/health", HealthHandler)
	if err := monitor.Start(); err != nil {
		return err
	}
	RegisterNewConfigListener(func() { monitor.Restart() })

	go OnlinePinger()
	go HAAdvertiser()
	Logger.Info().Strs("endpoints", notifier.Endpoints()).Msg("ready")

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), Config.GetDuration("graceful_timeout"))
	defer cancel()
	Logger.Info().Msg("shutting down")
	monitor.Shutdown(ctx)
	if Client != nil && Client.IsConnected() {
		Client.Disconnect(1000)
	}

	drained := make(chan struct{})
	go func() {
		notifier.Close()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		Logger.Warn().Msg("giving up on in-flight deliveries")
	}
	Logger.Info().Msg("exiting")
	return nil
}

// OnlinePinger keeps the availability topic fresh for Home Assistant.
func OnlinePinger() {
	for {
		if Client != nil && Client.IsConnected() {
			if token := Client.Publish(Config.GetString("online_topic"), 0, false, "online"); token.Wait() && token.Error() != nil {
				Logger.Error().Msgf("Error publishing online message: %v", token.Error())
			}
		}
		time.Sleep(10 * time.Second)
	}
}

// HAAdvertiser - advertises Home Assistant discovery messages every 5 minutes
func HAAdvertiser() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if Client != nil && Client.IsConnected() {
			Logger.Debug().Msg("Advertising Home Assistant discovery messages")
			AdvertiseHA(Client)
		}
	}
}
