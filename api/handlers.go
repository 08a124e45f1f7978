package api

import (
	"github.com/amelikova/stage-portfolio/config"
	"github.com/amelikova/stage-portfolio/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(projects projectRepository, images imageRepository, store storage.ImageStore, c map[string]string) *routeHandlers {
	gallerySlots := config.GetInt(c, "GALLERY_SLOTS", 5)
	profile := siteProfile{
		Name:  config.GetString(c, "SITE_OWNER_NAME", "Алиса Меликова"),
		Bio:   config.GetString(c, "SITE_OWNER_BIO", "Российский художник, живущая и работающая в Москве. Активно сотрудничает с ведущими режиссерами. Работы как в театральных постановках, так и в кинематографе."),
		Email: config.GetString(c, "CONTACT_EMAIL", ""),
		Phone: config.GetString(c, "CONTACT_PHONE", ""),
	}

	return &routeHandlers{
		projectHandler: newProjectHandler(projects, images, gallerySlots),
		uploadHandler:  newUploadHandler(store),
		siteHandler:    newSiteHandler(projects, profile, gallerySlots),
	}
}
