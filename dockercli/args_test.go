package dockercli

import (
	"reflect"
	"testing"

	"github.com/husklabs/husk/dockercli/options"
)

func TestBuildImageArgs(t *testing.T) {
	tests := map[string]struct {
		opts       options.BuildImage
		contextDir string
		expected   []string
	}{
		"bare": {
			opts:       options.BuildImage{},
			contextDir: ".",
			expected:   []string{"build", "."},
		},
		"tagged cwd context": {
			opts:       options.BuildImage{Tag: "husk-dev:latest"},
			contextDir: "/home/user/project",
			expected:   []string{"build", "--tag", "husk-dev:latest", "/home/user/project"},
		},
		"no cache": {
			opts:       options.BuildImage{NoCache: true, Tag: "husk-dev:latest"},
			contextDir: ".",
			expected:   []string{"build", "--no-cache", "--tag", "husk-dev:latest", "."},
		},
	}

	for testName, testCase := range tests {
		t.Run(testName, func(t *testing.T) {
			got := buildImageArgs(testCase.opts, testCase.contextDir)
			if !reflect.DeepEqual(got, testCase.expected) {
				t.Errorf("got %v, want %v", got, testCase.expected)
			}
		})
	}
}

func TestRunContainerArgs(t *testing.T) {
	opts := options.RunContainer{
		Interactive: true,
		Mount:       []string{"type=bind,source=/home/user/project,target=/husk"},
		Name:        "quiet-thunder",
		Remove:      true,
		TTY:         true,
		Workdir:     "/husk",
	}
	got := runContainerArgs(opts, "husk-dev:latest", nil)
	expected := []string{
		"run",
		"--interactive",
		"--mount", "type=bind,source=/home/user/project,target=/husk",
		"--name", "quiet-thunder",
		"--rm",
		"--tty",
		"--workdir", "/husk",
		"husk-dev:latest",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("got %v, want %v", got, expected)
	}

	got = runContainerArgs(options.RunContainer{Remove: true}, "husk-dev:latest", []string{"go", "test", "./..."})
	expected = []string{"run", "--rm", "husk-dev:latest", "go", "test", "./..."}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("argv placement: got %v, want %v", got, expected)
	}
}

func TestRemoveArgs(t *testing.T) {
	got := removeContainerArgs(options.RemoveContainer{Force: true}, []string{"a", "b"})
	expected := []string{"rm", "--force", "a", "b"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("got %v, want %v", got, expected)
	}

	got = removeImageArgs(options.RemoveImage{Force: true}, "husk-dev:latest")
	expected = []string{"image", "rm", "--force", "husk-dev:latest"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("got %v, want %v", got, expected)
	}
}

func TestParseRows(t *testing.T) {
	tests := map[string]struct {
		output   string
		wantCols int
		expected [][]string
	}{
		"empty": {
			output:   "",
			wantCols: 4,
			expected: nil,
		},
		"two rows with trailing newline": {
			output:   "abc123\tquiet-thunder\thusk-dev:latest\tUp 2 minutes\ndef456\tbold-river\thusk-dev:latest\tExited (0) 1 hour ago\n",
			wantCols: 4,
			expected: [][]string{
				{"abc123", "quiet-thunder", "husk-dev:latest", "Up 2 minutes"},
				{"def456", "bold-river", "husk-dev:latest", "Exited (0) 1 hour ago"},
			},
		},
		"short rows dropped": {
			output:   "abc123\tquiet-thunder\n",
			wantCols: 4,
			expected: nil,
		},
	}

	for testName, testCase := range tests {
		t.Run(testName, func(t *testing.T) {
			got := parseRows(testCase.output, testCase.wantCols)
			if !reflect.DeepEqual(got, testCase.expected) {
				t.Errorf("got %v, want %v", got, testCase.expected)
			}
		})
	}
}
