package entity

import (
	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

// DeviceInfo groups entities under one physical device in Home Assistant.
type DeviceInfo struct {
	Identifier   string `json:"identifier"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model,omitempty"`
	SWVersion    string `json:"sw_version,omitempty"`
	HWVersion    string `json:"hw_version,omitempty"`
}

// Info derives device metadata. Samsung appliance status (Micom firmware and
// otnDUID) wins over the OCF block, which wins over the device record.
func Info(device smartthings.Device) DeviceInfo {
	info := DeviceInfo{
		Identifier:   Prefix + "_" + device.DeviceID,
		Name:         device.DisplayName(),
		Manufacturer: device.ManufacturerName,
		Model:        device.DeviceTypeName,
		SWVersion:    Version,
	}
	if info.Manufacturer == "" {
		info.Manufacturer = "SmartThings"
	}
	if ocf := device.OCF; ocf != nil {
		if ocf.FirmwareVersion != "" {
			info.SWVersion = ocf.FirmwareVersion
		}
		if ocf.HwVersion != "" {
			info.HWVersion = ocf.HwVersion
		}
		if ocf.ModelNumber != "" {
			info.Model = ocf.ModelNumber
		}
	}
	if v := micomFirmware(device); v != "" {
		info.SWVersion = v
	}
	if v, ok := capability.MainValue(device, "samsungce.softwareUpdate", "otnDUID"); ok {
		if s := capability.String(v); s != "" {
			info.Model = s
		}
	}
	return info
}

func micomFirmware(device smartthings.Device) string {
	v, ok := capability.MainValue(device, "samsungce.softwareVersion", "versions")
	if !ok {
		return ""
	}
	versions, _ := v.([]any)
	for _, item := range versions {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if entry["description"] == "Micom" && entry["swType"] == "Firmware" {
			return capability.String(entry["versionNumber"])
		}
	}
	return ""
}
