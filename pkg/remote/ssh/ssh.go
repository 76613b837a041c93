package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/williamokano/site_pusher/pkg/remote"
)

type Channel struct {
	name       string
	sshClient  *ssh.Client
	sftpClient *sftp.Client
	agentConn  net.Conn
	output     io.Writer
}

func init() {
	remote.RegisterChannel("ssh", func(ctx context.Context, cfg remote.Config) (remote.Channel, error) {
		return New(ctx, cfg)
	})
}

// New connects to the remote host over SSH and opens an SFTP session for transfers
func New(ctx context.Context, cfg remote.Config) (*Channel, error) {
	sshCfg, err := parseConfig(cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", remote.ErrInvalidConfig, err)
	}

	name := cfg.Name
	if name == "" {
		name = sshCfg.User + "@" + sshCfg.Host
	}

	hostKeyCallback, err := buildHostKeyCallback(sshCfg)
	if err != nil {
		return nil, remote.WrapError(name, "host keys", err)
	}

	auth, agentConn, err := buildAuthMethods(sshCfg)
	if err != nil {
		return nil, remote.WrapError(name, "auth", err)
	}

	clientConfig := &ssh.ClientConfig{
		User:            sshCfg.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         sshCfg.ConnectTimeout,
	}

	addr := net.JoinHostPort(sshCfg.Host, strconv.Itoa(sshCfg.Port))
	sshClient, err := dial(ctx, addr, clientConfig)
	if err != nil {
		closeQuietly(agentConn)
		return nil, remote.WrapError(name, "connect", err)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		closeQuietly(agentConn)
		return nil, remote.WrapError(name, "sftp init", fmt.Errorf("%w: %v", remote.ErrConnFailed, err))
	}

	return &Channel{
		name:       name,
		sshClient:  sshClient,
		sftpClient: sftpClient,
		agentConn:  agentConn,
		output:     cfg.Output,
	}, nil
}

func (c *Channel) Name() string { return c.name }
func (c *Channel) Type() string { return "ssh" }

// Run executes command in a new SSH session
func (c *Channel) Run(ctx context.Context, command string) (*remote.CommandResult, error) {
	session, err := c.sshClient.NewSession()
	if err != nil {
		return nil, remote.WrapError(c.name, "session", fmt.Errorf("%w: %v", remote.ErrConnFailed, err))
	}
	defer session.Close()

	output := remote.NewOutputBuffer(c.output)
	session.Stdout = output
	session.Stderr = output

	start := time.Now()
	if err := session.Start(command); err != nil {
		return nil, remote.WrapError(c.name, "run", fmt.Errorf("%w: %v", remote.ErrCommandFailed, err))
	}

	done := make(chan error, 1)
	go func() { done <- session.Wait() }()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-ctx.Done():
		// Not every server honours signals; closing the session is what unblocks Wait.
		_ = session.Signal(ssh.SIGTERM)
		session.Close()
		return nil, remote.WrapError(c.name, "run", ctx.Err())
	}

	result := &remote.CommandResult{
		Command:  command,
		Output:   output.Bytes(),
		Duration: time.Since(start),
	}

	if waitErr != nil {
		var exitErr *ssh.ExitError
		if errors.As(waitErr, &exitErr) {
			result.ExitStatus = exitErr.ExitStatus()
			return result, &remote.CommandError{
				Command:    command,
				ExitStatus: result.ExitStatus,
				Output:     string(result.Output),
			}
		}

		result.ExitStatus = -1
		return result, remote.WrapError(c.name, "run", fmt.Errorf("%w: %v", remote.ErrCommandFailed, waitErr))
	}

	return result, nil
}

// Put uploads a file via SFTP
func (c *Channel) Put(ctx context.Context, localPath, remotePath string) error {
	localFile, err := os.Open(localPath)
	if err != nil {
		return remote.WrapError(c.name, "put", fmt.Errorf("%w: %v", remote.ErrTransferFailed, err))
	}
	defer localFile.Close()

	if err := c.sftpClient.MkdirAll(path.Dir(remotePath)); err != nil {
		return remote.WrapError(c.name, "mkdir", fmt.Errorf("%w: %v", remote.ErrTransferFailed, err))
	}

	remoteFile, err := c.sftpClient.OpenFile(remotePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return remote.WrapError(c.name, "create", fmt.Errorf("%w: %v", remote.ErrTransferFailed, err))
	}

	if _, err := remote.CopyContext(ctx, remoteFile, localFile); err != nil {
		remoteFile.Close()
		return remote.WrapError(c.name, "upload", fmt.Errorf("%w: %v", remote.ErrTransferFailed, err))
	}

	// Close flushes outstanding writes, so its error is a transfer error too
	if err := remoteFile.Close(); err != nil {
		return remote.WrapError(c.name, "upload", fmt.Errorf("%w: %v", remote.ErrTransferFailed, err))
	}

	return nil
}

// Close releases resources
func (c *Channel) Close() error {
	if c.sftpClient != nil {
		c.sftpClient.Close()
	}
	if c.sshClient != nil {
		c.sshClient.Close()
	}
	closeQuietly(c.agentConn)
	return nil
}

func dial(ctx context.Context, addr string, clientConfig *ssh.ClientConfig) (*ssh.Client, error) {
	dialer := net.Dialer{Timeout: clientConfig.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", remote.ErrConnFailed, err)
	}

	// The handshake itself does not take a context, so bound it with a deadline
	deadline := time.Now().Add(clientConfig.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", remote.ErrConnFailed, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		conn.Close()
		return nil, classifyHandshakeError(err)
	}

	if err := conn.SetDeadline(time.Time{}); err != nil {
		sshConn.Close()
		return nil, fmt.Errorf("%w: %v", remote.ErrConnFailed, err)
	}

	return ssh.NewClient(sshConn, chans, reqs), nil
}

func classifyHandshakeError(err error) error {
	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) || strings.Contains(err.Error(), "knownhosts:") {
		return fmt.Errorf("%w: %v", remote.ErrHostKeyMismatch, err)
	}
	if strings.Contains(err.Error(), "unable to authenticate") {
		return fmt.Errorf("%w: %v", remote.ErrAuthFailed, err)
	}
	return fmt.Errorf("%w: %v", remote.ErrConnFailed, err)
}

func buildHostKeyCallback(cfg *Config) (ssh.HostKeyCallback, error) {
	if cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}

	knownHostsPath := cfg.KnownHostsPath
	if knownHostsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: cannot locate known_hosts: %v", remote.ErrInvalidConfig, err)
		}
		knownHostsPath = filepath.Join(home, ".ssh", "known_hosts")
	}

	callback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load known_hosts %s: %v", remote.ErrInvalidConfig, knownHostsPath, err)
	}
	return callback, nil
}

// buildAuthMethods returns the auth methods offered to the server. The client tries each
// method name once, so every key source is folded into a single publickey callback.
// The returned agent connection, if any, must stay open for the life of the client.
func buildAuthMethods(cfg *Config) ([]ssh.AuthMethod, net.Conn, error) {
	var signers []ssh.Signer
	var agentClient agent.ExtendedAgent
	var agentConn net.Conn

	if cfg.KeyPath != "" {
		signer, err := loadSigner(cfg.KeyPath, cfg.KeyPassphrase)
		if err != nil {
			return nil, nil, err
		}
		signers = append(signers, signer)
	} else {
		// Same default identities the ssh client would try
		signers = append(signers, defaultSigners()...)
	}

	if cfg.UseAgent {
		if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
			if conn, err := net.Dial("unix", sock); err == nil {
				agentConn = conn
				agentClient = agent.NewClient(conn)
			}
		}
	}

	var methods []ssh.AuthMethod
	if len(signers) > 0 || agentClient != nil {
		methods = append(methods, ssh.PublicKeysCallback(func() ([]ssh.Signer, error) {
			all := append([]ssh.Signer(nil), signers...)
			if agentClient != nil {
				agentSigners, err := agentClient.Signers()
				if err == nil {
					all = append(all, agentSigners...)
				}
			}
			return all, nil
		}))
	}

	if cfg.Password != "" {
		methods = append(methods, ssh.Password(cfg.Password))
	}

	if len(methods) == 0 {
		closeQuietly(agentConn)
		return nil, nil, fmt.Errorf("%w: no SSH authentication method available (set key_path, password or SSH_AUTH_SOCK)", remote.ErrAuthFailed)
	}

	return methods, agentConn, nil
}

func loadSigner(keyPath, passphrase string) (ssh.Signer, error) {
	if err := ValidateKeyPermissions(keyPath); err != nil {
		return nil, err
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read SSH key: %v", remote.ErrInvalidConfig, err)
	}

	var signer ssh.Signer
	if passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse SSH key: %v", remote.ErrInvalidConfig, err)
	}

	return signer, nil
}

func defaultSigners() []ssh.Signer {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	var signers []ssh.Signer
	for _, name := range []string{"id_ed25519", "id_ecdsa", "id_rsa"} {
		keyPath := filepath.Join(home, ".ssh", name)
		if ValidateKeyPermissions(keyPath) != nil {
			continue
		}
		key, err := os.ReadFile(keyPath)
		if err != nil {
			continue
		}
		// Encrypted keys without a configured passphrase are left to the agent
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			continue
		}
		signers = append(signers, signer)
	}
	return signers
}

func closeQuietly(c io.Closer) {
	if c != nil {
		c.Close()
	}
}

func parseConfig(options map[string]interface{}) (*Config, error) {
	cfg := &Config{
		Port:           defaultPort,
		UseAgent:       true,
		ConnectTimeout: defaultConnectTimeout,
	}

	if v, ok := options["host"].(string); ok && v != "" {
		cfg.Host = v
	} else {
		return nil, fmt.Errorf("missing required option: host")
	}
	if v, ok := options["user"].(string); ok && v != "" {
		cfg.User = v
	} else {
		return nil, fmt.Errorf("missing required option: user")
	}
	if v, ok := options["password"].(string); ok {
		cfg.Password = v
	}
	if v, ok := options["key_path"].(string); ok {
		cfg.KeyPath = v
	}
	if v, ok := options["key_passphrase"].(string); ok {
		cfg.KeyPassphrase = v
	}
	if v, ok := options["known_hosts"].(string); ok {
		cfg.KnownHostsPath = v
	}
	if v, ok := options["use_agent"].(bool); ok {
		cfg.UseAgent = v
	}
	if v, ok := options["insecure_ignore_host_key"].(bool); ok {
		cfg.InsecureIgnoreHostKey = v
	}

	switch v := options["port"].(type) {
	case int:
		cfg.Port = v
	case float64:
		cfg.Port = int(v)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port out of range: %d", cfg.Port)
	}

	switch v := options["connect_timeout"].(type) {
	case time.Duration:
		cfg.ConnectTimeout = v
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid connect_timeout %q: %w", v, err)
		}
		cfg.ConnectTimeout = d
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}

	return cfg, nil
}
