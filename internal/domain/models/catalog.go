package models

// Category - категория отходов в каталоге.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// WasteType - тип отходов внутри категории.
type WasteType struct {
	ID                         int64  `json:"id"`
	Name                       string `json:"name"`
	Description                string `json:"description"`
	Category                   int64  `json:"category"`
	CategoryName               string `json:"category_name"`
	SeasonalAvailability       string `json:"seasonal_availability,omitempty"`
	StorageRequirements        string `json:"storage_requirements,omitempty"`
	TransportationRequirements string `json:"transportation_requirements,omitempty"`
	PotentialApplications      string `json:"potential_applications,omitempty"`
	Challenges                 string `json:"challenges,omitempty"`
	Image                      string `json:"image,omitempty"`
}

func (w WasteType) GetID() int64 { return w.ID }

// ResourceDocument - справочный документ по типу отходов.
type ResourceDocument struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	FileURL       string `json:"file_url"`
	WasteType     int64  `json:"waste_type"`
	WasteTypeName string `json:"waste_type_name"`
	UploadDate    string `json:"upload_date"`
}
