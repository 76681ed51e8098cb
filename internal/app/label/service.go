package label

type Service interface {
	GetAllLabels() ([]*Label, error)
	GetLabelByID(id uint64) (*Label, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetAllLabels() ([]*Label, error) {
	return s.repo.GetAllLabels()
}

func (s *service) GetLabelByID(id uint64) (*Label, error) {
	return s.repo.GetLabelByID(id)
}
