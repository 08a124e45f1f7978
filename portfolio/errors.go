package portfolio

import (
	"errors"
)

// Failure kinds. Every error returned by the store and the gateway wraps
// exactly one of them.
var (
	ErrLoad   = errors.New("load failure")
	ErrRead   = errors.New("read failure")
	ErrUpload = errors.New("upload failure")
	ErrAttach = errors.New("attach failure")
)

// ErrUploadInProgress is returned when an upload is started while another is running.
var ErrUploadInProgress = errors.New("upload already in progress")

// NotificationLevel separates success toasts from failure toasts.
type NotificationLevel int

const (
	LevelSuccess NotificationLevel = iota
	LevelError
)

// Notification is a user-facing title/description pair.
type Notification struct {
	Level       NotificationLevel
	Title       string
	Description string
}

// Notifier shows notifications to the user.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}

var (
	loadFailed = Notification{
		Level:       LevelError,
		Title:       "Ошибка загрузки",
		Description: "Не удалось загрузить проекты",
	}
	readFailed = Notification{
		Level:       LevelError,
		Title:       "Ошибка",
		Description: "Не удалось прочитать файл",
	}
	uploadFailed = Notification{
		Level:       LevelError,
		Title:       "Ошибка",
		Description: "Не удалось загрузить фото",
	}
	attachFailed = Notification{
		Level:       LevelError,
		Title:       "Ошибка",
		Description: "Не удалось прикрепить фото к проекту",
	}
	coverUploaded = Notification{
		Level:       LevelSuccess,
		Title:       "Обложка загружена",
		Description: "Обложка проекта обновлена",
	}
	galleryUploaded = Notification{
		Level:       LevelSuccess,
		Title:       "Фото загружено",
		Description: "Изображение добавлено в галерею",
	}
)

// failureNotification picks the fixed notification for err's failure kind.
func failureNotification(err error) Notification {
	switch {
	case errors.Is(err, ErrRead):
		return readFailed
	case errors.Is(err, ErrUpload):
		return uploadFailed
	case errors.Is(err, ErrAttach):
		return attachFailed
	default:
		return loadFailed
	}
}
