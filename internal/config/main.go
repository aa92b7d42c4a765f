package config

import (
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/audio"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
)

var (
	Play      = kingpin.Command("play", "Run the game engine against a rhythm chart")
	PlayChart = Play.Arg("chart", "Rhythm chart JSON file").Required().ExistingFile()

	Convert        = kingpin.Command("convert", "Convert a MIDI source into a rhythm chart")
	ConvertSource  = Convert.Arg("source", "Tone.js MIDI JSON or .mid file").Required().ExistingFile()
	ConvertMapping = Convert.Flag("mapping", "Track to utensil mapping YAML").Short('m').Required().ExistingFile()
	ConvertOut     = Convert.Flag("out", "Output chart path").Short('o').Default("rhythm_chart.json").String()

	Simulate        = kingpin.Command("simulate", "Publish keyboard-driven sensor readings")
	SimulateUtensil = Simulate.Arg("utensil", "Utensil to simulate").Required().Enum("pan", "cutting_board", "mixing_bowl")
	SimInterval     = Simulate.Flag("interval", "Publish cadence").Default("100ms").Duration()

	Broker   = kingpin.Flag("broker", "MQTT broker host").Default("farlab.infosci.cornell.edu").String()
	Port     = kingpin.Flag("port", "MQTT broker port").Default("1883").Int()
	Topic    = kingpin.Flag("topic", "MQTT topic").Default("IDD/kitchen-instrument").String()
	Username = kingpin.Flag("username", "MQTT username").Default("idd").String()
	Password = kingpin.Flag("password", "MQTT password").Default("device@theFarm").String()

	Listen      = kingpin.Flag("listen", "HTTP listen address").Default(":8765").String()
	MaxMessages = kingpin.Flag("max-messages", "Raw messages kept for debugging").Default("100").Int()

	LeadTime          = kingpin.Flag("lead-time", "How early visual cues fire").Default("3s").Duration()
	HitWindow         = kingpin.Flag("hit-window", "Judgment tolerance around a note").Default("3s").Duration()
	HoldCheckInterval = kingpin.Flag("hold-check-interval", "Hold maintenance sampling interval").Default("50ms").Duration()
	HoldGracePeriod   = kingpin.Flag("hold-grace", "Grace after a hold's end").Default("100ms").Duration()
	HoldThreshold     = kingpin.Flag("hold-threshold", "Durations above this are holds").Default("1s").Duration()
	Tick              = kingpin.Flag("tick", "Scheduler and watchdog tick interval").Default("10ms").Duration()
	JoinTimeout       = kingpin.Flag("join-timeout", "Bound on loop joins at restart").Default("2s").Duration()
	SettleDelay       = kingpin.Flag("settle-delay", "Pause between restart teardown and start").Default("100ms").Duration()
	NoCountdown       = kingpin.Flag("no-countdown", "Skip the 3-2-1-GO preamble").Bool()

	NoAudio    = kingpin.Flag("no-audio", "Disable local sound playback").Bool()
	PanSound   = kingpin.Flag("pan-sound", "Pan sizzle loop").Default("sounds/pan_sizzle.mp3").String()
	KnifeSound = kingpin.Flag("knife-sound", "Cutting board one-shot").Default("sounds/knife-stab-pull.mp3").String()
	WhiskSound = kingpin.Flag("whisk-sound", "Mixing bowl one-shot").Default("sounds/whisking.mp3").String()

	PanThreshold = kingpin.Flag("pan-threshold", "Band tolerance around a reference rotation").Default("20").Float64()
	BandLow      = kingpin.Flag("band-low", "Low band reference rotation").Default("30").Float64()
	BandMedium   = kingpin.Flag("band-medium", "Medium band reference rotation").Default("90").Float64()
	BandHigh     = kingpin.Flag("band-high", "High band reference rotation").Default("150").Float64()

	CenterX       = kingpin.Flag("center-x", "Mixing bowl stick center x").Default("519").Float64()
	CenterY       = kingpin.Flag("center-y", "Mixing bowl stick center y").Default("517").Float64()
	EdgeThreshold = kingpin.Flag("edge-threshold", "Stick travel that counts as an edge").Default("200").Float64()
)

func Parse() string {
	kingpin.Version("0.1.0")
	return kingpin.Parse()
}

func Bands() map[game.Band]float64 {
	return map[game.Band]float64{
		game.BandLow:    *BandLow,
		game.BandMedium: *BandMedium,
		game.BandHigh:   *BandHigh,
	}
}

// Thresholds gives the condition tolerance per utensil. Only the pan's band
// test uses a numeric tolerance.
func Thresholds() map[game.Utensil]float64 {
	return map[game.Utensil]float64{
		game.Pan:          *PanThreshold,
		game.CuttingBoard: 0,
		game.MixingBowl:   0,
	}
}

// SoundRules maps each utensil to its trigger sound. The pan sizzle loops,
// the others are one-shots.
func SoundRules() map[game.Utensil]audio.Rule {
	return map[game.Utensil]audio.Rule{
		game.Pan:          {File: *PanSound, Loop: true},
		game.CuttingBoard: {File: *KnifeSound},
		game.MixingBowl:   {File: *WhiskSound},
	}
}
