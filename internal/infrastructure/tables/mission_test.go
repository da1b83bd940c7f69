package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcsaga/forge/internal/domain/entities"
)

const missionFile = `#Mission Info

$Version: 0.10
$Name: XSTR("First Strike", -1)

#Background bitmaps
+Background Bitmap: nebula01
+Sun Bitmap: suncorona
+Background Bitmap: NEBULA01
$Skybox Model: starfield.pof

#Objects

$Name: Alpha 1
$Class: GTF Myrmidon
+AVI Name: briefing01.avi
+Wave Name: alpha_attack.wav
+Wave Name: none

$Name: Kappa 2
$Class: F-27B Arrow
`

func TestParseMission(t *testing.T) {
	result := ParseMissionContent("m01.fs2", []byte(missionFile))

	assert.Equal(t, entities.TableMission, result.Kind)
	require.Len(t, result.Entries, 1)
	entry := result.Entries[0]
	assert.Equal(t, "m01.fs2", entry.Name)

	// duplicate references differing only in case collapse to one
	assert.Equal(t, []string{"nebula01"}, entry.Properties["background_bitmaps"])
	assert.Equal(t, []string{"suncorona"}, entry.Properties["sun_bitmaps"])
	assert.Equal(t, []string{"briefing01.avi"}, entry.Properties["avi_names"])
	// "none" placeholders are not references
	assert.Equal(t, []string{"alpha_attack.wav"}, entry.Properties["wave_names"])

	ships, _ := entry.Properties["ship_names"].([]string)
	assert.Contains(t, ships, "Alpha 1")
	assert.Contains(t, ships, "Kappa 2")
}

const campaignFile = `$Name: XSTR("Darkest Dawn", -1)
$Campaign Type: single

+Intro Movie: intro.mve
+Fiction: prologue.txt

$Mission: m01.fs2
+Mission File: m01.fs2
+Briefing Audio: brief01.wav
+Mainhall: hermes_hall

$Mission: m02.fs2
+Mission File: m02.fs2
+Briefing Audio: brief02.wav
`

func TestParseCampaign(t *testing.T) {
	result := ParseCampaignContent("saga.fc2", []byte(campaignFile))

	assert.Equal(t, entities.TableCampaign, result.Kind)
	require.Len(t, result.Entries, 1)
	entry := result.Entries[0]

	assert.Equal(t, []string{"m01.fs2", "m02.fs2"}, entry.Properties["mission_files"])
	assert.Equal(t, []string{"brief01.wav", "brief02.wav"}, entry.Properties["briefing_audio"])
	assert.Equal(t, []string{"intro.mve"}, entry.Properties["intro_movies"])
	assert.Equal(t, []string{"prologue.txt"}, entry.Properties["fiction"])
	assert.Equal(t, []string{"hermes_hall"}, entry.Properties["mainhalls"])

	// campaigns do not collect $Name ship placements
	assert.NotContains(t, entry.Properties, "ship_names")
}
