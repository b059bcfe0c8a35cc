package obsidian

import (
	"errors"
	"testing"
)

func TestBuildURI(t *testing.T) {
	tests := []struct {
		name      string
		vaultPath string
		opts      []Option
		filePath  string
		wantURI   string
		wantErr   bool
	}{
		{
			name:      "mention note in a folder",
			vaultPath: "/Users/test/MyVault",
			filePath:  "People/@John Smith.md",
			wantURI:   "obsidian://open?vault=MyVault&file=People%2F%40John%20Smith",
		},
		{
			name:      "absolute path inside vault",
			vaultPath: "/Users/test/MyVault",
			filePath:  "/Users/test/MyVault/Projects/+Launch.md",
			wantURI:   "obsidian://open?vault=MyVault&file=Projects%2F%2BLaunch",
		},
		{
			name:      "vault name from folder with spaces",
			vaultPath: "/Users/test/My Vault",
			filePath:  "@Root.md",
			wantURI:   "obsidian://open?vault=My%20Vault&file=%40Root",
		},
		{
			name:      "registered vault name",
			vaultPath: "/Users/test/notes",
			opts:      []Option{WithVaultName("Second Brain")},
			filePath:  "@Ada.md",
			wantURI:   "obsidian://open?vault=Second%20Brain&file=%40Ada",
		},
		{
			name:      "absolute path outside vault",
			vaultPath: "/Users/test/MyVault",
			filePath:  "/Users/test/OtherFolder/file.md",
			wantErr:   true,
		},
		{
			name:      "relative path escaping vault",
			vaultPath: "/Users/test/MyVault",
			filePath:  "../secret.md",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := NewOpener(tt.vaultPath, tt.opts...)
			gotURI, err := opener.BuildURI(tt.filePath)

			if (err != nil) != tt.wantErr {
				t.Errorf("BuildURI() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if gotURI != tt.wantURI {
				t.Errorf("BuildURI() = %q, want %q", gotURI, tt.wantURI)
			}
		})
	}
}

func TestOpenFile_LaunchesURI(t *testing.T) {
	opener := NewOpener("/vault", WithVaultName(" "))

	var launched string
	opener.launch = func(uri string) error {
		launched = uri
		return nil
	}

	if err := opener.OpenFile("@Ada.md"); err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if want := "obsidian://open?vault=vault&file=%40Ada"; launched != want {
		t.Errorf("launched %q, want %q", launched, want)
	}

	errLaunch := errors.New("no handler")
	opener.launch = func(string) error { return errLaunch }
	if err := opener.OpenFile("@Ada.md"); !errors.Is(err, errLaunch) {
		t.Errorf("OpenFile() error = %v, want launch error", err)
	}

	launched = ""
	if err := opener.OpenFile("../outside.md"); err == nil || launched != "" {
		t.Error("OpenFile() should reject paths outside the vault without launching")
	}
}
