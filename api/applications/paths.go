package applications

import (
	"fmt"
)

// Paths
const (
	ApplicationsPath      = "/applications"
	ApplicationAssetsPath = "/oauth2/applications/%s/assets"
)

// Route names
const (
	GetApplicationsName      = "GET_APPLICATIONS"
	GetApplicationAssetsName = "GET_APPLICATION_ASSETS"
)

// Documented URLs, placeholders written as {object.field}
const (
	ApplicationsURL      = ApplicationsPath
	ApplicationAssetsURL = "/oauth2/applications/{application.id}/assets"
)

// GetApplications is the path of the GET_APPLICATIONS endpoint.
const GetApplications = ApplicationsPath

// GetApplicationAssets returns the path of the GET_APPLICATION_ASSETS endpoint.
// The id is inserted as is.
func GetApplicationAssets(applicationID string) string {
	return fmt.Sprintf(ApplicationAssetsPath, applicationID)
}
