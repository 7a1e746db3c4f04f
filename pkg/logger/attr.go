package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Attr constructors for the keys this module logs under. Keeping the
// key strings here means handlers and dashboards can rely on them.

// Group nests attrs under name.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error reports err under "error". A nil err yields the zero Attr,
// which the built-in slog handlers drop.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors reports every non-nil error in errs as an indexed group under
// "errors". The index keys keep the original positions readable when
// some slots were nil. All-nil input yields the zero Attr.
func Errors(errs ...error) slog.Attr {
	var members []slog.Attr
	for i, err := range errs {
		if err == nil {
			continue
		}
		members = append(members, slog.Any(strconv.Itoa(i), err))
	}
	if members == nil {
		return slog.Attr{}
	}
	return Group("errors", members...)
}

// RequestID reports a correlation ID under "request_id". An empty ID
// yields the zero Attr so requests without one log nothing extra.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Endpoint reports an endpoint name under "endpoint".
func Endpoint(name string) slog.Attr {
	return slog.String("endpoint", name)
}

// Link reports a chain link name under "link".
func Link(name string) slog.Attr {
	return slog.String("link", name)
}

// Duration reports an elapsed time under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component reports a subsystem name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
