package util

import (
	"encoding/json"
	"fmt"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

type HAAdvertisementAvailability struct {
	Topic               string `json:"topic"`                 // : "hab/online"
	PayloadAvailable    string `json:"payload_available"`     // : "online"
	PayloadNotAvailable string `json:"payload_not_available"` // : "offline"
}

type HADeviceSpec struct {
	Name        string   `json:"name"` // : "switcher"
	Identifiers []string `json:"ids"`  // : ["switcher"]
}

type HAAdvertisement struct { //nolint:govet // struct layout optimized for JSON field order
	Availability []HAAdvertisementAvailability `json:"availability"`
	Device       HADeviceSpec                  `json:"device"`
	UniqueID     string                        `json:"uniq_id"`       // "switcher-switcher"
	Name         string                        `json:"name"`          // : "switcher"
	CommandTopic string                        `json:"command_topic"` // : "hab/switcher/set"
	PayloadOn    string                        `json:"payload_on"`    // : "1"
	PayloadOff   string                        `json:"payload_off"`
	Platform     string                        `json:"platform"` // "switch"
	Optimistic   bool                          `json:"optimistic"`
	Qos          int                           `json:"qos"`
}

func (ha HAAdvertisement) ToJson() string {
	data, err := json.Marshal(ha)
	if err != nil {
		Logger.Error().Msgf("Error marshalling HAAdvertisement: %v", err)
		return ""
	}
	return string(data)
}

// ConstructHAAdvertisement describes the switch for Home Assistant MQTT
// discovery. There is no state topic, so HA treats it as optimistic.
func ConstructHAAdvertisement(name, commandTopic, onlineTopic, payloadOn, payloadOff string) HAAdvertisement {
	return HAAdvertisement{
		Name:         name,
		CommandTopic: commandTopic,
		PayloadOn:    payloadOn,
		PayloadOff:   payloadOff,
		Availability: []HAAdvertisementAvailability{
			{
				Topic:               onlineTopic,
				PayloadAvailable:    "online",
				PayloadNotAvailable: "offline",
			},
		},
		Qos:        0,
		UniqueID:   "switcher-" + name,
		Platform:   "switch",
		Optimistic: true,
		Device: HADeviceSpec{
			Name:        "switcher",
			Identifiers: []string{"switcher"},
		},
	}
}

func DiscoveryTopic(name string) string {
	return "homeassistant/switch/" + name + "/config"
}

func AdvertiseHA(client MQTT.Client) {
	name := Config.GetString("ha_name")
	ha := ConstructHAAdvertisement(
		name,
		Config.GetString("state_topic"),
		Config.GetString("online_topic"),
		Config.GetString("payload_on"),
		Config.GetString("payload_off"),
	)
	if token := client.Publish(DiscoveryTopic(name), 0, false, ha.ToJson()); token.Wait() && token.Error() != nil {
		Logger.Error().Msgf("Error Publishing: %v", fmt.Errorf("%v", token.Error()))
	}
}
