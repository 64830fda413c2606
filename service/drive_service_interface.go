package service

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	ListFolderPhotos(folderID string) ([]PhotoFile, error)
}
