package mcudb

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

const testNS = `xmlns="http://mcd.rou.st.com/modules.php?name=mcu"`

// writeDescriptor gzips xml into dir/rel, creating parent directories.
func writeDescriptor(t *testing.T, dir, rel, xml string) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(xml)); err != nil {
		t.Fatalf("gzip write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close failed: %v", err)
	}
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func afGPIODescriptor() string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<IP ` + testNS + ` Name="GPIO" Version="STM32F401_gpio_v1_0">
	<GPIO_Pin Name="PA0">
		<PinSignal Name="USART2_CTS">
			<SpecificParameter Name="GPIO_AF">
				<PossibleValue>GPIO_AF7_USART2</PossibleValue>
			</SpecificParameter>
		</PinSignal>
		<PinSignal Name="TIM2_CH1">
			<SpecificParameter Name="GPIO_AF">
				<PossibleValue>GPIO_AF1_TIM2</PossibleValue>
			</SpecificParameter>
		</PinSignal>
	</GPIO_Pin>
	<GPIO_Pin Name="PA2">
		<PinSignal Name="USART2_TX">
			<SpecificParameter Name="GPIO_AF">
				<PossibleValue>GPIO_AF7_USART2</PossibleValue>
			</SpecificParameter>
		</PinSignal>
	</GPIO_Pin>
</IP>`
}

func afPartDescriptor() string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<Mcu ` + testNS + ` RefName="STM32F401CCUx" Line="STM32F401" Package="UFQFPN48">
	<IP InstanceName="ADC1" Name="ADC" Version="adc2_v1_1"/>
	<IP InstanceName="GPIO" Name="GPIO" Version="STM32F401_gpio_v1_0"/>
	<Pin Name="PA0" Position="10" Type="I/O">
		<Signal Name="ADC1_IN0"/>
		<Signal Name="TIM2_CH1"/>
		<Signal Name="USART2_CTS"/>
		<Signal IOModes="Input,Output,Analog" Name="GPIO"/>
	</Pin>
	<Pin Name="PA2" Position="12" Type="I/O">
		<Signal Name="USART2_TX"/>
	</Pin>
	<Pin Name="VDD" Position="48" Type="Power"/>
	<Pin Name="PC13" Position="2" Type="I/O">
		<Signal Name="RTC_TAMP1"/>
	</Pin>
</Mcu>`
}

func remapGPIODescriptor() string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<IP ` + testNS + ` Name="GPIO" Version="STM32F103x8_gpio_v1_0">
	<GPIO_Pin Name="PB2">
		<PinSignal Name="SPI1_MOSI">
			<RemapBlock Name="SPI1_REMAP0"/>
			<RemapBlock Name="SPI1_REMAP2"/>
		</PinSignal>
		<PinSignal Name="TIM3_CH1">
			<RemapBlock Name="TIM3_REMAP3"/>
			<RemapBlock Name="TIM3_REMAP1"/>
			<RemapBlock Name="TIM3_REMAP2"/>
		</PinSignal>
		<PinSignal Name="BOOT1"/>
	</GPIO_Pin>
</IP>`
}

func remapPartDescriptor() string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<Mcu ` + testNS + ` Line="STM32F103" Package="LQFP48">
	<IP Name="GPIO" Version="STM32F103x8_gpio_v1_0"/>
	<Pin Name="PB2" Position="20">
		<Signal Name="SPI1_MOSI"/>
		<Signal Name="TIM3_CH1"/>
		<Signal Name="BOOT1"/>
		<Signal Name="GPIO"/>
	</Pin>
</Mcu>`
}

// newTestDB writes a part and its GPIO descriptor and returns the database.
func newTestDB(t *testing.T, part, partXML, version, gpioXML string) *Database {
	t.Helper()
	dir := t.TempDir()
	db := New(dir)
	writeDescriptor(t, dir, filepath.Join("mcu", part+DescriptorExt), partXML)
	if gpioXML != "" {
		writeDescriptor(t, dir, filepath.Join("mcu", "IP", "GPIO-"+version+"_Modes"+DescriptorExt), gpioXML)
	}
	return db
}
