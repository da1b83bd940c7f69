package services

import (
	"path/filepath"
	"regexp"
	"strings"
)

// AudioCategory buckets a sound file by its role.
type AudioCategory string

// Audio categories used for both discovery metadata and target placement.
const (
	AudioPilotVoice   AudioCategory = "pilot_voice"
	AudioControlTower AudioCategory = "control_tower"
	AudioEngine       AudioCategory = "engine_sounds"
	AudioWeapon       AudioCategory = "weapon_sounds"
	AudioShield       AudioCategory = "shield_sounds"
	AudioUI           AudioCategory = "ui_sounds"
	AudioAmbient      AudioCategory = "ambient_sounds"
	AudioExplosion    AudioCategory = "explosion_sounds"
	AudioMusic        AudioCategory = "music"
)

// audioTokens maps filename tokens to categories. First match wins within a
// category group; categories are tried in declaration order.
var audioTokens = []struct {
	category AudioCategory
	tokens   []string
}{
	{AudioEngine, []string{"engine_", "aburn_", "throttle_", "afterburner_", "thrust_", "idle_", "startup_", "shutdown_"}},
	{AudioWeapon, []string{"missile_", "laser_", "ion_", "cannon_", "gun_", "fire_", "launch_", "impact_", "hit_", "beam_"}},
	{AudioShield, []string{"shield_", "hull_", "armor_", "damage_"}},
	{AudioUI, []string{"button_", "menu_", "alert_", "warning_", "beep_", "click_", "confirm_", "cancel_", "select_"}},
	{AudioExplosion, []string{"explosion_", "explode_", "boom_"}},
	{AudioMusic, []string{"music_", "theme_", "track_"}},
}

// shipCallsigns are the capital ships whose control towers speak in the
// campaign.
var shipCallsigns = []string{"hermes", "bradshaw", "wellington", "lexington"}

// rePilotVoice matches `NN_<callsign>_NN.wav` pilot voice files; group 1 is
// the mission number.
var rePilotVoice = regexp.MustCompile(`^(\d{2})_([a-z][a-z0-9]*)_(\d{2})\.(wav|ogg)$`)

// AudioClassification describes one categorized sound file.
type AudioClassification struct {
	Category AudioCategory
	// Mission is the two-digit mission number for pilot voice files.
	Mission string
	// Location is the ship callsign for control tower files.
	Location string
}

// ClassifyAudio buckets a sound filename. Pilot-voice and control-tower
// recognizers run first; the token table decides the rest, defaulting to
// ambient.
func ClassifyAudio(filename string) AudioClassification {
	base := strings.ToLower(filepath.Base(filename))

	if m := rePilotVoice.FindStringSubmatch(base); m != nil {
		return AudioClassification{Category: AudioPilotVoice, Mission: m[1]}
	}

	if strings.Contains(base, "control") || strings.Contains(base, "command") || strings.Contains(base, "tower") {
		for _, callsign := range shipCallsigns {
			if strings.Contains(base, callsign) {
				return AudioClassification{Category: AudioControlTower, Location: callsign}
			}
		}
	}

	for _, group := range audioTokens {
		for _, token := range group.tokens {
			if strings.Contains(base, token) {
				return AudioClassification{Category: group.category}
			}
		}
	}
	return AudioClassification{Category: AudioAmbient}
}
