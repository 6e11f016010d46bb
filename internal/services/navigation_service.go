package services

import (
	"cipherhaven/internal/authz"
	"cipherhaven/internal/models"
)

const (
	PathHome       = "/"
	PathCreatePost = "/create-post"
	PathDashboard  = "/dashboard"
	PathLawBot     = "/lawbot"
	PathTherapyBot = "/therapybot"
)

type NavigationService interface {
	// Links builds the header links for path. roleID comes from a verified session
	// claim; zero means anonymous.
	Links(path string, roleID int) []models.NavLink
}

type navigationService struct{}

func NewNavigationService() NavigationService {
	return navigationService{}
}

func (navigationService) Links(path string, roleID int) []models.NavLink {
	if path == "" {
		path = PathHome
	}
	links := []models.NavLink{
		{Label: "Home", Href: PathHome, Active: path == PathHome},
	}
	if authz.IsAdmin(roleID) {
		links = append(links, models.NavLink{Label: "Dashboard", Href: PathDashboard, Active: path == PathDashboard})
	} else {
		links = append(links, models.NavLink{Label: "Create Post", Href: PathCreatePost, Active: path == PathCreatePost})
	}
	// Law Bot points home but highlights on its own page.
	links = append(links, models.NavLink{Label: "Law Bot", Href: PathHome, Active: path == PathLawBot})
	if path != PathHome {
		links = append(links, models.NavLink{Label: "Therapy Bot", Href: PathTherapyBot, Active: path == PathTherapyBot})
	}
	return links
}
