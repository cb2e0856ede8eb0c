package service

import (
	"gorm.io/gorm"

	"dbfleet/internal/dto"
	"dbfleet/internal/repository"
	"dbfleet/pkg/responses"
)

type ClusterService struct {
	clusterRepo *repository.ClusterRepository
}

func NewClusterService(db *gorm.DB) *ClusterService {
	return &ClusterService{
		clusterRepo: repository.NewClusterRepository(db),
	}
}

// List 集群列表
func (s *ClusterService) List(req *dto.ClusterListRequest) ([]dto.ClusterResponse, error) {
	filter := ""
	if req.Filter != nil {
		filter = *req.Filter
	}
	clusters, err := s.clusterRepo.List(filter)
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询集群列表失败", err)
	}

	resps := make([]dto.ClusterResponse, len(clusters))
	for i := range clusters {
		resps[i] = *dto.ToClusterResponse(&clusters[i])
	}
	return resps, nil
}

// Get 集群详情
func (s *ClusterService) Get(name string) (*dto.ClusterResponse, error) {
	cluster, err := s.clusterRepo.FindByName(name)
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询集群失败", err)
	}
	if cluster == nil {
		return nil, responses.ErrRecordNotFound
	}
	return dto.ToClusterResponse(cluster), nil
}
