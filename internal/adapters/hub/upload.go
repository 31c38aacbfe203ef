package hub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/url"

	perr "qabundle/internal/platform/errors"
)

const (
	modeLFS     = "lfs"
	modeRegular = "regular"

	lfsMediaType = "application/vnd.git-lfs+json"
)

type preuploadFile struct {
	Path   string `json:"path"`
	Size   int    `json:"size"`
	Sample string `json:"sample"`
}

type preuploadReq struct {
	Files []preuploadFile `json:"files"`
}

type preuploadResp struct {
	Files []struct {
		Path       string `json:"path"`
		UploadMode string `json:"uploadMode"`
	} `json:"files"`
}

// preupload asks the hub which files must go through LFS
func (c *Client) preupload(ctx context.Context, repo, rev string, files []File) (map[string]string, error) {
	req := preuploadReq{Files: make([]preuploadFile, 0, len(files))}
	for _, f := range files {
		req.Files = append(req.Files, preuploadFile{Path: f.Path, Size: len(f.Content), Sample: f.sample()})
	}

	var out preuploadResp
	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		ForceContentType("application/json").
		Post("/api/datasets/" + repoPath(repo) + "/preupload/" + url.PathEscape(rev))
	if err := check("preupload", resp, err); err != nil {
		return nil, err
	}

	modes := make(map[string]string, len(files))
	for _, f := range files {
		modes[f.Path] = modeRegular
	}
	for _, f := range out.Files {
		if f.UploadMode == modeLFS {
			modes[f.Path] = modeLFS
		}
	}
	return modes, nil
}

type lfsObject struct {
	OID  string `json:"oid"`
	Size int    `json:"size"`
}

type lfsBatchReq struct {
	Operation string      `json:"operation"`
	Transfers []string    `json:"transfers"`
	Objects   []lfsObject `json:"objects"`
	HashAlgo  string      `json:"hash_algo"`
}

type lfsAction struct {
	Href   string            `json:"href"`
	Header map[string]string `json:"header"`
}

type lfsBatchResp struct {
	Objects []struct {
		OID     string `json:"oid"`
		Actions struct {
			Upload *lfsAction `json:"upload"`
			Verify *lfsAction `json:"verify"`
		} `json:"actions"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"objects"`
}

// uploadLFS negotiates one batch and uploads the objects the hub does not already hold
func (c *Client) uploadLFS(ctx context.Context, repo string, files []File) error {
	byOID := make(map[string]File, len(files))
	req := lfsBatchReq{Operation: "upload", Transfers: []string{"basic"}, HashAlgo: "sha256"}
	for _, f := range files {
		oid := f.OID()
		byOID[oid] = f
		req.Objects = append(req.Objects, lfsObject{OID: oid, Size: len(f.Content)})
	}

	var out lfsBatchResp
	resp, err := c.api.R().
		SetContext(ctx).
		SetHeader("Accept", lfsMediaType).
		SetHeader("Content-Type", lfsMediaType).
		SetBody(req).
		SetResult(&out).
		ForceContentType("application/json").
		Post("/datasets/" + repoPath(repo) + ".git/info/lfs/objects/batch")
	if err := check("lfs batch", resp, err); err != nil {
		return err
	}

	for _, obj := range out.Objects {
		f, ok := byOID[obj.OID]
		if !ok {
			return perr.Remotef("lfs batch returned unknown object %s", obj.OID)
		}
		if obj.Error != nil {
			return perr.Remotef("lfs object %s: %d %s", f.Path, obj.Error.Code, obj.Error.Message)
		}
		if up := obj.Actions.Upload; up != nil {
			resp, err := c.storage.R().
				SetContext(ctx).
				SetHeaders(up.Header).
				SetBody(bytes.NewReader(f.Content)).
				Put(up.Href)
			if err := check("lfs upload "+f.Path, resp, err); err != nil {
				return err
			}
		}
		if v := obj.Actions.Verify; v != nil {
			resp, err := c.api.R().
				SetContext(ctx).
				SetHeaders(v.Header).
				SetHeader("Content-Type", lfsMediaType).
				SetBody(lfsObject{OID: obj.OID, Size: len(f.Content)}).
				Post(v.Href)
			if err := check("lfs verify "+f.Path, resp, err); err != nil {
				return err
			}
		}
	}
	return nil
}

type ndLine struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type commitHeader struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

type regularOp struct {
	Content  string `json:"content"`
	Path     string `json:"path"`
	Encoding string `json:"encoding"`
}

type lfsOp struct {
	Path string `json:"path"`
	Algo string `json:"algo"`
	OID  string `json:"oid"`
	Size int    `json:"size"`
}

// commit records every file in one NDJSON commit request
func (c *Client) commit(ctx context.Context, repo, rev, summary string, files []File, modes map[string]string) (CommitInfo, error) {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	lines := []ndLine{{Key: "header", Value: commitHeader{Summary: summary}}}
	for _, f := range files {
		if modes[f.Path] == modeLFS {
			lines = append(lines, ndLine{Key: "lfsFile", Value: lfsOp{Path: f.Path, Algo: "sha256", OID: f.OID(), Size: len(f.Content)}})
			continue
		}
		lines = append(lines, ndLine{Key: "file", Value: regularOp{
			Content:  base64.StdEncoding.EncodeToString(f.Content),
			Path:     f.Path,
			Encoding: "base64",
		}})
	}
	for _, l := range lines {
		if err := enc.Encode(l); err != nil {
			return CommitInfo{}, perr.Wrap(err, perr.ErrorCodeJSON, "encode commit")
		}
	}

	var out CommitInfo
	resp, err := c.api.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-ndjson").
		SetBody(body.Bytes()).
		SetResult(&out).
		ForceContentType("application/json").
		Post("/api/datasets/" + repoPath(repo) + "/commit/" + url.PathEscape(rev))
	if err := check("commit", resp, err); err != nil {
		return CommitInfo{}, err
	}
	return out, nil
}
