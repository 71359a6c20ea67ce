package db

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/retailcast/retailcast/internal/errs"
	"github.com/retailcast/retailcast/internal/model"
)

// CreateDeviceType persists a new device type under its caller-supplied id.
// The name must not collide with any active device type, case-insensitive.
func (s *Store) CreateDeviceType(d model.DeviceType) (model.DeviceType, error) {
	mu := s.lock(ColDevices)
	mu.Lock()
	defer mu.Unlock()

	if strings.TrimSpace(d.ID) == "" {
		return model.DeviceType{}, errs.Invalid("id", "device type id is required")
	}
	if err := s.checkDeviceName(d.Name, d.ID); err != nil {
		return model.DeviceType{}, err
	}

	now := time.Now().UTC()
	d.Active = true
	d.PermanentlyDisabled = false
	d.CreatedAt = now
	d.UpdatedAt = now

	if err := s.putDoc(ColDevices, d.ID, d); err != nil {
		log.Error().Err(err).Str("device", d.ID).Msg("failed to create device type")
		return model.DeviceType{}, err
	}
	s.logActivity(ColDevices, d.ID, "create")
	return d, nil
}

// GetDeviceType fetches one device type.
func (s *Store) GetDeviceType(id string) (model.DeviceType, error) {
	var d model.DeviceType
	if err := s.getDoc(ColDevices, id, &d); err != nil {
		return model.DeviceType{}, err
	}
	return d, nil
}

// ListDeviceTypes returns all device types in key order.
func (s *Store) ListDeviceTypes() ([]model.DeviceType, error) {
	docs, err := s.allDocs(ColDevices)
	if err != nil {
		return nil, err
	}
	out := make([]model.DeviceType, 0, len(docs))
	for _, d := range docs {
		var dt model.DeviceType
		if err := json.Unmarshal([]byte(d), &dt); err != nil {
			return nil, err
		}
		out = append(out, dt)
	}
	return out, nil
}

// FindDeviceType resolves a device type by exact id or, failing that, by
// case-insensitive name among active types. Used by bulk import.
func (s *Store) FindDeviceType(idOrName string) (model.DeviceType, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return model.DeviceType{}, &errs.NotFoundError{Collection: ColDevices, Key: idOrName}
	}
	var d model.DeviceType
	if err := s.getDoc(ColDevices, idOrName, &d); err == nil {
		return d, nil
	}
	all, err := s.ListDeviceTypes()
	if err != nil {
		return model.DeviceType{}, err
	}
	for _, dt := range all {
		if dt.Active && strings.EqualFold(dt.Name, idOrName) {
			return dt, nil
		}
	}
	return model.DeviceType{}, &errs.NotFoundError{Collection: ColDevices, Key: idOrName}
}

// UpdateDeviceType upserts an existing device type, keeping the disable flag
// one-way and the active-name uniqueness rule intact.
func (s *Store) UpdateDeviceType(d model.DeviceType) (model.DeviceType, error) {
	mu := s.lock(ColDevices)
	mu.Lock()
	defer mu.Unlock()

	var stored model.DeviceType
	if err := s.getDoc(ColDevices, d.ID, &stored); err != nil {
		return model.DeviceType{}, err
	}
	if stored.PermanentlyDisabled {
		if d.Active {
			return model.DeviceType{}, errs.Invalid("active", "device type is permanently disabled and cannot be re-enabled")
		}
		d.Active = false
		d.PermanentlyDisabled = true
	}
	if d.Active {
		if err := s.checkDeviceName(d.Name, d.ID); err != nil {
			return model.DeviceType{}, err
		}
	}
	d.CreatedAt = stored.CreatedAt
	d.UpdatedAt = time.Now().UTC()

	if err := s.putDoc(ColDevices, d.ID, d); err != nil {
		return model.DeviceType{}, err
	}
	s.logActivity(ColDevices, d.ID, "update")
	return d, nil
}

// DisableDeviceType turns a device type off for good.
func (s *Store) DisableDeviceType(id string) (model.DeviceType, error) {
	mu := s.lock(ColDevices)
	mu.Lock()
	defer mu.Unlock()

	var d model.DeviceType
	if err := s.getDoc(ColDevices, id, &d); err != nil {
		return model.DeviceType{}, err
	}
	d.Active = false
	d.PermanentlyDisabled = true
	d.UpdatedAt = time.Now().UTC()

	if err := s.putDoc(ColDevices, id, d); err != nil {
		return model.DeviceType{}, err
	}
	s.logActivity(ColDevices, id, "disable")
	return d, nil
}

// checkDeviceName enforces the active-name uniqueness rule. The self id is
// excluded so updates don't collide with their own record.
func (s *Store) checkDeviceName(name, selfID string) error {
	if strings.TrimSpace(name) == "" {
		return errs.Invalid("name", "device type name is required")
	}
	all, err := s.ListDeviceTypes()
	if err != nil {
		return err
	}
	for _, dt := range all {
		if dt.ID == selfID || !dt.Active {
			continue
		}
		if strings.EqualFold(dt.Name, name) {
			return &errs.DuplicateNameError{Name: name}
		}
	}
	return nil
}
