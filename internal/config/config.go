// internal/config/config.go
package config

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Bridge BridgeConfig `yaml:"bridge"`
}

// ---- LOG ----

type LogConfig struct {
	Level       string `yaml:"level"` // debug | info | warn | error
	Development bool   `yaml:"development"`
}

type BridgeConfig struct {
	StatusMemory StatusMemoryConfig `yaml:"status_memory"`
	Pins         *PinsConfig        `yaml:"pins"`
	Units        []UnitConfig       `yaml:"units"`
}

// ---- LINK ----

// LinkConfig describes one Modbus connection.
type LinkConfig struct {
	Transport     string        `yaml:"transport"` // tcp | rtu
	Endpoint      string        `yaml:"endpoint"`  // host:port or serial device
	UnitID        uint8         `yaml:"unit_id"`
	TimeoutMs     int           `yaml:"timeout_ms"`
	IdleTimeoutMs int           `yaml:"idle_timeout_ms"`
	Serial        *SerialConfig `yaml:"serial"` // rtu only
}

type SerialConfig struct {
	BaudRate int          `yaml:"baud_rate"`
	DataBits int          `yaml:"data_bits"`
	StopBits int          `yaml:"stop_bits"`
	Parity   string       `yaml:"parity"` // N | E | O
	RS485    *RS485Config `yaml:"rs485"`
}

type RS485Config struct {
	Enabled              bool `yaml:"enabled"`
	DelayRtsBeforeSendMs int  `yaml:"delay_rts_before_send_ms"`
	DelayRtsAfterSendMs  int  `yaml:"delay_rts_after_send_ms"`
	RtsHighDuringSend    bool `yaml:"rts_high_during_send"`
	RtsHighAfterSend     bool `yaml:"rts_high_after_send"`
	RxDuringTx           bool `yaml:"rx_during_tx"`
}

// ---- UNIT ----

type UnitConfig struct {
	ID        string          `yaml:"id"`
	Source    SourceConfig    `yaml:"source"`
	Fields    []FieldConfig   `yaml:"fields"`
	Targets   []TargetConfig  `yaml:"targets"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Poll      PollConfig      `yaml:"poll"`
}

// ---- SOURCE ----

type SourceConfig struct {
	LinkConfig `yaml:",inline"`

	// Device status block (optional, opt-in)
	StatusSlot *uint16 `yaml:"status_slot"`
	DeviceName string  `yaml:"device_name"`

	// DisplayName is DeviceName in display bytes. Set by Normalize.
	DisplayName []byte `yaml:"-"`
}

// ---- TEXT FIELDS ----

// FieldConfig is one text field: where it is read and where it is shown.
type FieldConfig struct {
	Name     string        `yaml:"name"`
	FC       uint8         `yaml:"fc"` // 3 | 4
	Address  uint16        `yaml:"address"`
	Quantity uint16        `yaml:"quantity"` // registers, two bytes each
	Display  DisplayConfig `yaml:"display"`
}

type DisplayConfig struct {
	Address uint16 `yaml:"address"` // register offset inside the target
	Width   int    `yaml:"width"`   // display cells (bytes)
	Scroll  bool   `yaml:"scroll"`  // scroll text longer than width
}

// ---- TARGET ----

type TargetConfig struct {
	ID           uint32 `yaml:"id"` // data unit id
	Endpoint     string `yaml:"endpoint"`
	Protocol     string `yaml:"protocol"` // modbus | ingest
	Offset       uint16 `yaml:"offset"`
	StatusUnitID *uint8 `yaml:"status_unit_id"` // per-target status memory (optional)
}

// ---- STATUS ----

type StatusMemoryConfig struct {
	Endpoint string `yaml:"endpoint"`
	Protocol string `yaml:"protocol"` // modbus | ingest
}

// ---- NORMALIZE ----

type NormalizeConfig struct {
	Strict bool `yaml:"strict"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- PINS ----

type PinsConfig struct {
	Link        LinkConfig      `yaml:"link"`
	BaseAddress uint16          `yaml:"base_address"`
	Count       int             `yaml:"count"`
	Modes       []PinModeConfig `yaml:"modes"`
}

type PinModeConfig struct {
	Pin  uint8 `yaml:"pin"`
	Mode uint8 `yaml:"mode"`
}

const (
	ProtocolModbus = "modbus"
	ProtocolIngest = "ingest"
)
