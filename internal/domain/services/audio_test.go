package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAudio(t *testing.T) {
	tests := []struct {
		file     string
		category AudioCategory
		mission  string
		location string
	}{
		{"01_sandman_03.wav", AudioPilotVoice, "01", ""},
		{"12_viking_01.ogg", AudioPilotVoice, "12", ""},
		{"voice/07_ninja_22.wav", AudioPilotVoice, "07", ""},
		{"control_hermes_01.wav", AudioControlTower, "", "hermes"},
		{"bradshaw_tower_05.wav", AudioControlTower, "", "bradshaw"},
		{"engine_hum_loop.wav", AudioEngine, "", ""},
		{"aburn_loop.wav", AudioEngine, "", ""},
		{"missile_launch.wav", AudioWeapon, "", ""},
		{"laser_fire_01.wav", AudioWeapon, "", ""},
		{"shield_up.wav", AudioShield, "", ""},
		{"menu_click.wav", AudioUI, "", ""},
		{"explosion_large.wav", AudioExplosion, "", ""},
		{"music_combat_01.wav", AudioMusic, "", ""},
		{"nebula_drone.wav", AudioAmbient, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			cls := ClassifyAudio(tt.file)
			assert.Equal(t, tt.category, cls.Category)
			assert.Equal(t, tt.mission, cls.Mission)
			assert.Equal(t, tt.location, cls.Location)
		})
	}
}

func TestClassifyAudio_PilotVoiceNeedsExactShape(t *testing.T) {
	// three-digit mission numbers and missing segments are not pilot voice
	assert.NotEqual(t, AudioPilotVoice, ClassifyAudio("123_sandman_01.wav").Category)
	assert.NotEqual(t, AudioPilotVoice, ClassifyAudio("01_sandman.wav").Category)
	assert.NotEqual(t, AudioPilotVoice, ClassifyAudio("sandman_01_02.txt").Category)
}
