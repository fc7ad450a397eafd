package device_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/irhome/pkg/control"
	"github.com/urmzd/irhome/pkg/device"
	"github.com/urmzd/irhome/pkg/ir"
	"github.com/urmzd/irhome/pkg/ir/irtest"
	"gopkg.in/yaml.v3"
)

func cmds(name string, ops ...string) map[string]ir.Command {
	m := make(map[string]ir.Command, len(ops))
	for _, op := range ops {
		m[op] = ir.Command{Name: name + "." + op, Pulses: []int{9000, 4500, 560, 560}}
	}
	return m
}

func mustControl(t *testing.T, s control.Spec) control.Control {
	t.Helper()
	c, err := control.FromSpec(s)
	require.NoError(t, err)
	return c
}

func power(t *testing.T) control.Control {
	return mustControl(t, control.Spec{Name: "power", Kind: control.KindBinary, Commands: cmds("power", control.OpOn, control.OpOff)})
}

func tvControls(t *testing.T) []control.Control {
	return []control.Control{
		power(t),
		mustControl(t, control.Spec{Name: "volume", Kind: control.KindLevel, State: 3, Max: 10, Commands: cmds("volume", control.OpUp, control.OpDown)}),
		mustControl(t, control.Spec{Name: "channel", Kind: control.KindBidirectional, Labels: []string{"1", "2", "3"}, Commands: cmds("channel", control.OpNext, control.OpPrevious)}),
		mustControl(t, control.Spec{Name: "input_source", Kind: control.KindCyclic, Labels: []string{"hdmi1", "hdmi2"}, Commands: cmds("input_source", control.OpNext)}),
		mustControl(t, control.Spec{Name: "video_play", Kind: control.KindBinary, Commands: cmds("video_play", control.OpOn, control.OpOff)}),
		mustControl(t, control.Spec{Name: "mute", Kind: control.KindToggle, Commands: cmds("mute", control.OpOn, control.OpOff)}),
	}
}

func TestNew_DuplicateControlName(t *testing.T) {
	vol := mustControl(t, control.Spec{Name: "volume", Kind: control.KindLevel, Max: 5})
	again := mustControl(t, control.Spec{Name: "volume", Kind: control.KindCyclic, Labels: []string{"a"}})

	_, err := device.New("tv", power(t), vol, again)
	assert.ErrorIs(t, err, device.ErrDuplicateControlName)

	// An extra may not shadow power either.
	_, err = device.New("tv", power(t), power(t))
	assert.ErrorIs(t, err, device.ErrDuplicateControlName)
}

func TestNew_RequiresPower(t *testing.T) {
	_, err := device.New("tv", mustControl(t, control.Spec{Name: "on_off", Kind: control.KindBinary}))
	assert.ErrorIs(t, err, control.ErrInvalidSpec)

	_, err = device.New("", power(t))
	assert.ErrorIs(t, err, control.ErrInvalidSpec)

	_, err = device.New("tv", nil)
	assert.ErrorIs(t, err, control.ErrInvalidSpec)
}

func TestAddControl(t *testing.T) {
	d, err := device.New("lamp", power(t))
	require.NoError(t, err)

	require.NoError(t, d.AddControl(mustControl(t, control.Spec{Name: "eco", Kind: control.KindSetter})))
	err = d.AddControl(mustControl(t, control.Spec{Name: "eco", Kind: control.KindStateless}))
	assert.ErrorIs(t, err, device.ErrDuplicateControlName)

	c, ok := d.Control("eco")
	require.True(t, ok)
	assert.Equal(t, control.KindSetter, c.Kind())
}

func TestControls_PowerFirstThenSorted(t *testing.T) {
	d, err := profile(t, device.ProfileTV).Build("tv", tvControls(t)...)
	require.NoError(t, err)

	var names []string
	for _, c := range d.Controls() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"power", "channel", "input_source", "mute", "video_play", "volume"}, names)
}

func TestCommandIDs(t *testing.T) {
	d, err := device.New("tv", power(t),
		mustControl(t, control.Spec{Name: "volume", Kind: control.KindLevel, Max: 5}),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"power.off", "power.on", "volume.down", "volume.up"}, d.CommandIDs())
}

func TestExecuteCommand(t *testing.T) {
	ctx := context.Background()
	rec := irtest.NewRecorder()
	d, err := device.New("tv", power(t),
		mustControl(t, control.Spec{Name: "volume", Kind: control.KindLevel, State: 1, Max: 2, Commands: cmds("volume", control.OpUp, control.OpDown)}),
	)
	require.NoError(t, err)

	require.NoError(t, d.ExecuteCommand(ctx, rec, "volume.up"))
	vol, _ := d.Control("volume")
	assert.Equal(t, 2, vol.State())

	assert.ErrorIs(t, d.ExecuteCommand(ctx, rec, "volume.up"), control.ErrBoundary)
	assert.ErrorIs(t, d.ExecuteCommand(ctx, rec, "brightness.up"), control.ErrUnknownOperation)
	assert.ErrorIs(t, d.ExecuteCommand(ctx, rec, "volume.sideways"), control.ErrUnknownOperation)
	assert.ErrorIs(t, d.ExecuteCommand(ctx, rec, "volume"), device.ErrInvalidCommandID)

	assert.Equal(t, []string{"volume.up"}, rec.Emitted())
}

func TestParseCommandID(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		op      string
		wantErr bool
	}{
		{"power.on", "power", "on", false},
		{"fan.speed.next", "fan.speed", "next", false},
		{"power", "", "", true},
		{".on", "", "", true},
		{"power.", "", "", true},
	}
	for _, tt := range tests {
		name, op, err := device.ParseCommandID(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, device.ErrInvalidCommandID, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.name, name)
		assert.Equal(t, tt.op, op)
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	ctx := context.Background()
	d, err := profile(t, device.ProfileTV).Build("living-room-tv", tvControls(t)...)
	require.NoError(t, err)
	require.NoError(t, d.ExecuteCommand(ctx, irtest.NewRecorder(), "channel.previous"))

	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var back device.Device
	require.NoError(t, json.Unmarshal(raw, &back))

	assert.Equal(t, "living-room-tv", back.ID())
	assert.Equal(t, device.ProfileTV, back.Profile())
	assert.Equal(t, d.CommandIDs(), back.CommandIDs())
	ch, ok := back.Control("channel")
	require.True(t, ok)
	assert.Equal(t, "3", ch.State())
}

func TestJSON_RecordShape(t *testing.T) {
	d, err := device.New("fan", power(t))
	require.NoError(t, err)

	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "fan", doc["device_id"])
	assert.Equal(t, "generic", doc["profile"])
	controls := doc["controls"].(map[string]any)
	pw := controls["power"].(map[string]any)
	assert.Equal(t, "binary", pw["kind"])
	assert.Equal(t, []any{true, false}, pw["possible_states"])
}

func TestJSON_RejectsProfileMismatch(t *testing.T) {
	doc := `{"device_id": "lamp", "profile": "light", "controls": {
		"power": {"kind": "binary", "state": false, "possible_states": [true, false], "commands": {}}
	}}`
	var d device.Device
	assert.ErrorIs(t, json.Unmarshal([]byte(doc), &d), device.ErrProfileMismatch)
}

func TestProfile_Build(t *testing.T) {
	light := profile(t, device.ProfileLight)

	_, err := light.Build("lamp", power(t))
	assert.ErrorIs(t, err, device.ErrProfileMismatch)

	wrongKind := mustControl(t, control.Spec{Name: "brightness", Kind: control.KindCyclic, Labels: []string{"low", "high"}})
	tone := mustControl(t, control.Spec{Name: "tone", Kind: control.KindLevel, Max: 3})
	_, err = light.Build("lamp", power(t), wrongKind, tone)
	assert.ErrorIs(t, err, device.ErrProfileMismatch)

	brightness := mustControl(t, control.Spec{Name: "brightness", Kind: control.KindLevel, Max: 5})
	extra := mustControl(t, control.Spec{Name: "night", Kind: control.KindStateless})
	d, err := light.Build("lamp", power(t), brightness, tone, extra)
	require.NoError(t, err)
	assert.Equal(t, device.ProfileLight, d.Profile())
	assert.Len(t, d.Controls(), 4)
}

func TestLookupProfile(t *testing.T) {
	p, err := device.LookupProfile("")
	require.NoError(t, err)
	assert.Equal(t, device.ProfileGeneric, p.Name)

	_, err = device.LookupProfile("fridge")
	assert.ErrorIs(t, err, device.ErrProfileMismatch)

	var names []string
	for _, p := range device.Profiles() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"generic", "light", "tv", "aircon"}, names)
}

func TestDefinition_YAMLRoundTrip(t *testing.T) {
	src := `
device_id: bedroom-ac
profile: aircon
controls:
  - name: power
    kind: toggle
    commands:
      "on": {name: power, pulses: [3400, 1700, 430, 1290]}
      "off": {name: power, pulses: [3400, 1700, 430, 1290]}
  - name: temp
    kind: level
    state: 24
    min: 16
    max: 30
  - name: fan_speed
    kind: cyclic
    labels: [auto, low, high]
  - name: mode
    kind: cyclic
    state: heat
    labels: [cool, dry, heat]
  - name: swing
    kind: cyclic
    labels: ["off", "on"]
`
	var def device.Definition
	require.NoError(t, yaml.Unmarshal([]byte(src), &def))

	d, err := def.Build()
	require.NoError(t, err)
	assert.Equal(t, device.ProfileAircon, d.Profile())
	temp, _ := d.Control("temp")
	assert.Equal(t, 24, temp.State())

	out, err := yaml.Marshal(device.DefinitionOf(d))
	require.NoError(t, err)

	var again device.Definition
	require.NoError(t, yaml.Unmarshal(out, &again))
	d2, err := again.Build()
	require.NoError(t, err)
	assert.Equal(t, d.CommandIDs(), d2.CommandIDs())
	mode, _ := d2.Control("mode")
	assert.Equal(t, "heat", mode.State())
}

func TestCheckID(t *testing.T) {
	d, err := device.New("tv", power(t))
	require.NoError(t, err)

	assert.NoError(t, device.CheckID("tv", d))
	assert.ErrorIs(t, device.CheckID("radio", d), device.ErrIDMismatch)
	assert.ErrorIs(t, device.CheckID("tv", nil), device.ErrIDMismatch)
}

func profile(t *testing.T, name string) device.Profile {
	t.Helper()
	p, err := device.LookupProfile(name)
	require.NoError(t, err)
	return p
}

func TestLearnTimeout(t *testing.T) {
	tests := []struct {
		secs int
		want time.Duration
	}{
		{0, device.DefaultLearnTimeout},
		{-5, device.DefaultLearnTimeout},
		{30, 30 * time.Second},
		{600, device.MaxLearnTimeout},
		{601, device.MaxLearnTimeout},
		{10_000_000_000, device.MaxLearnTimeout},
		{math.MaxInt, device.MaxLearnTimeout},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, device.LearnTimeout(tt.secs), tt.secs)
	}
}
