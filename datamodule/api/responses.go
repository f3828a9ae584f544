package api

import (
	"net/http"

	"github.com/absmach/supermq"

	"github.com/fenics-sim/fenics/pkg/node"
)

var (
	_ supermq.Response = (*setupResponse)(nil)
	_ supermq.Response = (*loaderResponse)(nil)
	_ supermq.Response = (*sizesResponse)(nil)
	_ supermq.Response = (*probabilitiesResponse)(nil)
	_ supermq.Response = (*nodesResponse)(nil)
	_ supermq.Response = (*topologyResponse)(nil)
)

type setupResponse struct {
	Ready bool `json:"ready"`
}

func (r setupResponse) Code() int {
	return http.StatusCreated
}

func (r setupResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r setupResponse) Empty() bool {
	return false
}

type loaderResponse struct {
	NodeID    int  `json:"node_id"`
	Examples  int  `json:"examples"`
	Batches   int  `json:"batches"`
	BatchSize int  `json:"batch_size"`
	Shuffled  bool `json:"shuffled"`
}

func (r loaderResponse) Code() int {
	return http.StatusOK
}

func (r loaderResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r loaderResponse) Empty() bool {
	return false
}

type sizesResponse struct {
	Sizes map[int]int `json:"sizes"`
	Total int         `json:"total"`
}

func (r sizesResponse) Code() int {
	return http.StatusOK
}

func (r sizesResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r sizesResponse) Empty() bool {
	return false
}

type probabilitiesResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

func (r probabilitiesResponse) Code() int {
	return http.StatusOK
}

func (r probabilitiesResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r probabilitiesResponse) Empty() bool {
	return false
}

type nodesResponse struct {
	Nodes []node.Node `json:"nodes"`
}

func (r nodesResponse) Code() int {
	return http.StatusOK
}

func (r nodesResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r nodesResponse) Empty() bool {
	return false
}

type topologyResponse struct {
	Name  string   `json:"name"`
	Nodes int      `json:"nodes"`
	Edges [][2]int `json:"edges"`
}

func (r topologyResponse) Code() int {
	return http.StatusOK
}

func (r topologyResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r topologyResponse) Empty() bool {
	return false
}
