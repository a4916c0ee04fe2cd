/*
NAME
  errors.go

DESCRIPTION
  errors.go collects the small helper constructors used to raise
  status-coded errors from the core package.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

import (
	"github.com/ausocean/pmd/id"
	"github.com/ausocean/pmd/status"
)

func notFoundErr(kind string, eid id.EntityId) error {
	return status.New(status.NotFound, "%s %s not found", kind, eid)
}

func oomErr(field string) error {
	return status.New(status.OutOfMemory, "insufficient capacity for %s", field)
}
