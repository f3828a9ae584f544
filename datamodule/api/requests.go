package api

import apiutil "github.com/absmach/supermq/api/http/util"

type setupReq struct{}

type nodeReq struct {
	id  int
	set bool
}

func (r *nodeReq) validate() error {
	if !r.set {
		return apiutil.ErrMissingID
	}

	return nil
}

type listReq struct{}
