package config

import (
	"fmt"
	"math"
	"time"
)

// apply overlays values from a merged config map onto s.
// Keys that are absent leave the current value alone; unknown keys are ignored.
func (s *Settings) apply(m map[string]any) error {
	if sec, ok, err := section(m, "aim"); err != nil {
		return err
	} else if ok {
		if err := s.Aim.apply(sec); err != nil {
			return err
		}
	}

	if sec, ok, err := section(m, "log"); err != nil {
		return err
	} else if ok {
		if err := setString(sec, "log", "level", &s.Log.Level); err != nil {
			return err
		}
		if err := setString(sec, "log", "path", &s.Log.Path); err != nil {
			return err
		}
	}

	if sec, ok, err := section(m, "menu"); err != nil {
		return err
	} else if ok {
		if raw, ok := sec["items"]; ok {
			items, err := decodeItems("menu.items", raw)
			if err != nil {
				return err
			}
			s.Menu.Items = items
		}
	}
	return nil
}

func (a *AimSettings) apply(sec map[string]any) error {
	if err := setString(sec, "aim", "direction", &a.Direction); err != nil {
		return err
	}
	if err := setString(sec, "aim", "trigger", &a.Trigger); err != nil {
		return err
	}
	if v, ok := sec["tolerance"]; ok {
		f, err := toFloat("aim.tolerance", v)
		if err != nil {
			return err
		}
		a.Tolerance = f
	}
	if v, ok := sec["mouseLocsTracked"]; ok {
		f, err := toFloat("aim.mouseLocsTracked", v)
		if err != nil {
			return err
		}
		if f != math.Trunc(f) {
			return &ValidationError{Path: "aim.mouseLocsTracked", Message: "must be a whole number", Value: v}
		}
		a.MouseLocsTracked = int(f)
	}
	if v, ok := sec["activationDelay"]; ok {
		d, err := toDuration("aim.activationDelay", v)
		if err != nil {
			return err
		}
		a.ActivationDelay = d
	}
	if v, ok := sec["defaultDelay"]; ok {
		d, err := toDuration("aim.defaultDelay", v)
		if err != nil {
			return err
		}
		a.DefaultDelay = d
	}
	return nil
}

func section(m map[string]any, name string) (map[string]any, bool, error) {
	raw, ok := m[name]
	if !ok {
		return nil, false, nil
	}
	sec, ok := raw.(map[string]any)
	if !ok {
		return nil, false, &ValidationError{Path: name, Message: "must be a table", Value: raw}
	}
	return sec, true, nil
}

func setString(sec map[string]any, prefix, key string, dst *string) error {
	v, ok := sec[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return &ValidationError{Path: prefix + "." + key, Message: "must be a string", Value: v}
	}
	*dst = s
	return nil
}

func toFloat(path string, v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, &ValidationError{Path: path, Message: "must be a number", Value: v}
	}
}

// toDuration accepts Go duration strings ("300ms") and plain numbers of milliseconds.
func toDuration(path string, v any) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, &ValidationError{Path: path, Message: "must be a duration like \"300ms\"", Value: v}
		}
		return parsed, nil
	default:
		ms, err := toFloat(path, v)
		if err != nil {
			return 0, &ValidationError{Path: path, Message: "must be a duration or milliseconds", Value: v}
		}
		return time.Duration(ms * float64(time.Millisecond)), nil
	}
}

func decodeItems(path string, raw any) ([]Item, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Path: path, Message: "must be a list of items", Value: raw}
	}

	items := make([]Item, 0, len(list))
	for i, entry := range list {
		p := fmt.Sprintf("%s[%d]", path, i)
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, &ValidationError{Path: p, Message: "must be a table", Value: entry}
		}

		var item Item
		if err := setString(m, p, "label", &item.Label); err != nil {
			return nil, err
		}
		if err := setString(m, p, "action", &item.Action); err != nil {
			return nil, err
		}
		if children, ok := m["children"]; ok {
			decoded, err := decodeItems(p+".children", children)
			if err != nil {
				return nil, err
			}
			item.Children = decoded
		}
		items = append(items, item)
	}
	return items, nil
}
