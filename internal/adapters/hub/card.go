package hub

import (
	"bytes"
	"strings"

	perr "qabundle/internal/platform/errors"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// CardFile is the dataset card path inside the repo
const CardFile = "README.md"

// DefaultConfig is the config whose shard lives under data/
const DefaultConfig = "default"

const shardName = "train-00000-of-00001.parquet"

// ShardPath is where a config's single train shard is stored
func ShardPath(config string) string {
	return configDir(config) + "/" + shardName
}

func configDir(config string) string {
	if config == DefaultConfig {
		return "data"
	}
	return config
}

// CardEntry describes one config on the dataset card
type CardEntry struct {
	Config   string
	Rows     int
	Bytes    int64
	Features []string
}

type frontMatter struct {
	Configs     []cardConfig   `yaml:"configs,omitempty"`
	DatasetInfo infoList       `yaml:"dataset_info,omitempty"`
	Extra       map[string]any `yaml:",inline"`
}

type cardConfig struct {
	ConfigName string         `yaml:"config_name"`
	DataFiles  []dataFiles    `yaml:"data_files"`
	Extra      map[string]any `yaml:",inline"`
}

type dataFiles struct {
	Split string `yaml:"split"`
	Path  string `yaml:"path"`
}

type feature struct {
	Name  string `yaml:"name"`
	DType string `yaml:"dtype"`
}

type split struct {
	Name        string `yaml:"name"`
	NumBytes    int64  `yaml:"num_bytes"`
	NumExamples int    `yaml:"num_examples"`
}

type datasetInfo struct {
	ConfigName   string         `yaml:"config_name,omitempty"`
	Features     []feature      `yaml:"features"`
	Splits       []split        `yaml:"splits"`
	DownloadSize int64          `yaml:"download_size"`
	DatasetSize  int64          `yaml:"dataset_size"`
	Extra        map[string]any `yaml:",inline"`
}

// infoList accepts both the single-mapping and the list form of dataset_info
type infoList []datasetInfo

func (l *infoList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.MappingNode {
		var one datasetInfo
		if err := n.Decode(&one); err != nil {
			return err
		}
		*l = infoList{one}
		return nil
	}
	var many []datasetInfo
	if err := n.Decode(&many); err != nil {
		return err
	}
	*l = many
	return nil
}

// BuildCard renders the dataset card for repo with entry upserted by config name.
// existing may be nil; its body and unrelated front matter keys are kept
func BuildCard(existing []byte, repo string, entry CardEntry) ([]byte, error) {
	var fm frontMatter
	head, body, ok := splitFrontMatter(existing)
	if ok {
		if err := yaml.Unmarshal(head, &fm); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeRemote, "existing dataset card front matter")
		}
	}
	if strings.TrimSpace(string(body)) == "" {
		body = []byte(defaultBody(repo, entry.Config))
	}

	upsertConfig(&fm, entry.Config)
	upsertInfo(&fm, entry)

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&fm); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "encode dataset card")
	}
	if err := enc.Close(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "encode dataset card")
	}
	buf.WriteString("---\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

func upsertConfig(fm *frontMatter, config string) {
	files := []dataFiles{{Split: "train", Path: configDir(config) + "/train-*"}}
	for i := range fm.Configs {
		if fm.Configs[i].ConfigName == config {
			fm.Configs[i].DataFiles = files
			return
		}
	}
	fm.Configs = append(fm.Configs, cardConfig{ConfigName: config, DataFiles: files})
}

func upsertInfo(fm *frontMatter, e CardEntry) {
	info := datasetInfo{
		ConfigName:   e.Config,
		Splits:       []split{{Name: "train", NumBytes: e.Bytes, NumExamples: e.Rows}},
		DownloadSize: e.Bytes,
		DatasetSize:  e.Bytes,
	}
	for _, f := range e.Features {
		info.Features = append(info.Features, feature{Name: f, DType: "string"})
	}
	for i := range fm.DatasetInfo {
		if fm.DatasetInfo[i].ConfigName == e.Config {
			info.Extra = fm.DatasetInfo[i].Extra
			fm.DatasetInfo[i] = info
			return
		}
	}
	fm.DatasetInfo = append(fm.DatasetInfo, info)
}

// splitFrontMatter separates a leading "---" block from the markdown body
func splitFrontMatter(doc []byte) (head, body []byte, ok bool) {
	doc = bytes.TrimPrefix(doc, []byte("\ufeff"))
	if !bytes.HasPrefix(doc, []byte("---\n")) {
		return nil, doc, false
	}
	rest := doc[len("---\n"):]
	if bytes.HasPrefix(rest, []byte("---\n")) {
		return nil, rest[len("---\n"):], true
	}
	i := bytes.Index(rest, []byte("\n---\n"))
	if i < 0 {
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-len("\n---")], nil, true
		}
		return nil, doc, false
	}
	return rest[:i+1], rest[i+len("\n---\n"):], true
}

// Title turns "ns/medieval-qa-dataset" into "Medieval Qa Dataset"
func Title(repo string) string {
	_, name := splitRepo(repo)
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(name)
}

func defaultBody(repo, config string) string {
	var b strings.Builder
	b.WriteString("# " + Title(repo) + "\n\n")
	b.WriteString("Question answering pairs merged from several source formats into one schema.\n")
	b.WriteString("Each row holds a question, its context and the first answer.\n\n")
	b.WriteString("## Usage\n\n")
	b.WriteString("```python\nfrom datasets import load_dataset\n\n")
	b.WriteString("ds = load_dataset(\"" + repo + "\", \"" + config + "\")\n```\n")
	return b.String()
}
